package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/scene"
)

func TestPorts_Validate(t *testing.T) {
	full := func() *Ports {
		return &Ports{
			World:    &mockWorldManager{},
			Content:  &mockLoadManager{},
			Scripts:  &mockScriptManager{},
			Host:     scene.NewBrowser(nil),
			Settings: newMockSettingsService(),
		}
	}

	tests := []struct {
		name   string
		modify func(p *Ports)
		want   error
	}{
		{"complete", func(*Ports) {}, nil},
		{"missing world", func(p *Ports) { p.World = nil }, ErrMissingWorldManager},
		{"missing content", func(p *Ports) { p.Content = nil }, ErrMissingContentManager},
		{"missing scripts", func(p *Ports) { p.Scripts = nil }, ErrMissingScriptManager},
		{"missing host", func(p *Ports) { p.Host = nil }, ErrMissingHost},
		{"missing settings", func(p *Ports) { p.Settings = nil }, ErrMissingSettingsService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := full()
			tt.modify(p)
			assert.Equal(t, tt.want, p.Validate())
		})
	}
}

func TestConfigure_RejectsInvalidPorts(t *testing.T) {
	setupCLITest(t)

	assert.Error(t, Configure(nil))
	assert.ErrorIs(t, Configure(&Ports{}), ErrMissingWorldManager)
}

func TestConfigure_DefaultsRenderer(t *testing.T) {
	env := setupCLITest(t)

	require.NoError(t, Configure(&Ports{
		World:        env.world,
		Content:      env.content,
		Scripts:      env.scripts,
		Host:         env.host,
		Settings:     env.settings,
		RendererType: "gl",
	}))
	assert.Equal(t, "gl", rendererType)
	assert.Nil(t, historyService)

	require.NoError(t, Configure(&Ports{
		World:    env.world,
		Content:  env.content,
		Scripts:  env.scripts,
		Host:     env.host,
		Settings: env.settings,
	}))
	assert.Equal(t, DefaultRendererType, rendererType)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"load", "watch", "view", "history", "settings", "version"} {
		assert.True(t, names[want], want)
	}
}
