package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/warden", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "warden"), got)
	})
}

func TestDefaultConfigDir_Darwin(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("darwin-only test")
	}

	got, err := DefaultConfigDir()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Library", "Application Support", "warden"), got)
}

func TestResolveConfigDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string // substring the result must contain
	}{
		{
			name:    "flag wins over env",
			flag:    "/explicit/config",
			envVal:  "/env/config",
			wantSub: "/explicit/config",
		},
		{
			name:    "env wins when flag empty",
			flag:    "",
			envVal:  "/env/config",
			wantSub: "/env/config",
		},
		{
			name:    "platform default when both empty",
			flag:    "",
			envVal:  "",
			wantSub: "warden",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveRoot(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name      string
		flag      string
		configVal string
		envVal    string
		want      string
	}{
		{
			name:      "flag wins over all",
			flag:      "/flag/root",
			configVal: "/config/root",
			envVal:    "/env/root",
			want:      "/flag/root",
		},
		{
			name:      "env wins over config",
			flag:      "",
			configVal: "/config/root",
			envVal:    "/env/root",
			want:      "/env/root",
		},
		{
			name:      "config wins when flag and env empty",
			flag:      "",
			configVal: "/config/root",
			envVal:    "",
			want:      "/config/root",
		},
		{
			name:      "CWD when all empty",
			flag:      "",
			configVal: "",
			envVal:    "",
			want:      cwd,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvRoot, tt.envVal)
			got, err := ResolveRoot(tt.flag, tt.configVal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRoot_AbsolutePath(t *testing.T) {
	t.Run("relative flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvRoot, "")
		got, err := ResolveRoot("relative/root", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative config value becomes absolute", func(t *testing.T) {
		t.Setenv(EnvRoot, "")
		got, err := ResolveRoot("", "relative/config")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}

func TestResolveAuditDB(t *testing.T) {
	tests := []struct {
		name      string
		flag      string
		configVal string
		envVal    string
		want      string
	}{
		{
			name:      "flag wins over all",
			flag:      "/flag/audit.db",
			configVal: "/config/audit.db",
			envVal:    "/env/audit.db",
			want:      "/flag/audit.db",
		},
		{
			name:      "env wins over config",
			flag:      "",
			configVal: "/config/audit.db",
			envVal:    "/env/audit.db",
			want:      "/env/audit.db",
		},
		{
			name:      "config wins when flag and env empty",
			flag:      "",
			configVal: "/config/audit.db",
			envVal:    "",
			want:      "/config/audit.db",
		},
		{
			name:      "config dir default when all empty",
			flag:      "",
			configVal: "",
			envVal:    "",
			want:      filepath.Join("/cfg", AuditDBName),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAuditDB, tt.envVal)
			got, err := ResolveAuditDB(tt.flag, tt.configVal, "/cfg")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
