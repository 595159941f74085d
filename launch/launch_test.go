package launch

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montrey/runa/config"
	"github.com/montrey/runa/desktop"
)

type recorder struct {
	cmds []*exec.Cmd
	err  error
}

func (r *recorder) start(cmd *exec.Cmd) error {
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func newTestLauncher(t *testing.T, cfg *config.Config, env map[string]string) (*Launcher, *recorder) {
	t.Helper()
	l, err := New(cfg, func(k string) string { return env[k] }, nil)
	require.NoError(t, err)
	rec := &recorder{}
	l.start = rec.start
	return l, rec
}

func TestCommand(t *testing.T) {
	l, rec := newTestLauncher(t, config.DefaultConfig(), nil)

	require.NoError(t, l.Command(`ls -la "my dir"`))
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, []string{"ls", "-la", "my dir"}, rec.cmds[0].Args)

	assert.ErrorIs(t, l.Command("   "), ErrEmptyCommand)
	assert.Error(t, l.Command(`echo "unterminated`))
	assert.Len(t, rec.cmds, 1)
}

func TestApplication(t *testing.T) {
	app := desktop.Application{ID: "org.example.Top.desktop", Name: "Top", Exec: "top %F"}

	t.Run("plain", func(t *testing.T) {
		l, rec := newTestLauncher(t, config.DefaultConfig(), nil)
		require.NoError(t, l.Application(app))
		assert.Equal(t, []string{"top"}, rec.cmds[0].Args)
		assert.Nil(t, rec.cmds[0].Env)
	})

	t.Run("terminal from env", func(t *testing.T) {
		l, rec := newTestLauncher(t, config.DefaultConfig(), map[string]string{"TERMINAL": "alacritty"})
		term := app
		term.Terminal = true
		require.NoError(t, l.Application(term))
		assert.Equal(t, []string{"alacritty", "-e", "top"}, rec.cmds[0].Args)
	})

	t.Run("terminal from config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.TermCommand = "foot --app-id launcher -e"
		l, rec := newTestLauncher(t, cfg, map[string]string{"TERMINAL": "alacritty"})
		term := app
		term.Terminal = true
		require.NoError(t, l.Application(term))
		assert.Equal(t, []string{"foot", "--app-id", "launcher", "-e", "top"}, rec.cmds[0].Args)
	})

	t.Run("discrete gpu", func(t *testing.T) {
		l, rec := newTestLauncher(t, config.DefaultConfig(), nil)
		gpu := app
		gpu.PrefersNonDefaultGPU = true
		require.NoError(t, l.Application(gpu))
		assert.Contains(t, rec.cmds[0].Env, "DRI_PRIME=1")
	})

	t.Run("scope", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.LaunchScope = true
		l, rec := newTestLauncher(t, cfg, nil)
		require.NoError(t, l.Application(app))

		args := rec.cmds[0].Args
		require.Len(t, args, 6)
		assert.Equal(t, []string{"systemd-run", "--user", "--scope", "--quiet"}, args[:4])
		assert.True(t, strings.HasPrefix(args[4], "--unit=app-runa-org.example.Top-"), args[4])
		assert.Equal(t, "top", args[5])
	})

	t.Run("empty exec", func(t *testing.T) {
		l, _ := newTestLauncher(t, config.DefaultConfig(), nil)
		assert.ErrorIs(t, l.Application(desktop.Application{ID: "x.desktop", Exec: "%U"}), ErrEmptyCommand)
	})
}

func TestAction(t *testing.T) {
	app := desktop.Application{
		ID:                   "firefox.desktop",
		Name:                 "Firefox",
		Exec:                 "firefox %u",
		PrefersNonDefaultGPU: true,
	}
	act := desktop.Action{ID: "private", Name: "New Private Window", Exec: "firefox --private-window %u"}

	cfg := config.DefaultConfig()
	cfg.LaunchScope = true
	l, rec := newTestLauncher(t, cfg, nil)
	require.NoError(t, l.Action(app, act))

	args := rec.cmds[0].Args
	require.Len(t, args, 7)
	assert.True(t, strings.HasPrefix(args[4], "--unit=app-runa-firefox_private-"), args[4])
	assert.Equal(t, []string{"firefox", "--private-window"}, args[5:])
	assert.Contains(t, rec.cmds[0].Env, "DRI_PRIME=1")

	assert.ErrorIs(t, l.Action(app, desktop.Action{ID: "empty", Exec: "%u"}), ErrEmptyCommand)
}

func TestStartFailure(t *testing.T) {
	l, rec := newTestLauncher(t, config.DefaultConfig(), nil)
	rec.err = errors.New("no such file")

	err := l.Script("/home/u/scripts/backup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/home/u/scripts/backup")
}

func TestUnitEscape(t *testing.T) {
	assert.Equal(t, "my_script.sh", unitEscape("my script.sh"))
	assert.Equal(t, "org.gnome.Terminal", unitEscape("org.gnome.Terminal"))
}
