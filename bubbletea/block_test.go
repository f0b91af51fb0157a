package bubbletea_test

import (
	"testing"

	"github.com/fwojciec/murmur"
	bt "github.com/fwojciec/murmur/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestUserMessageBlock(t *testing.T) {
	t.Parallel()

	b := bt.NewUserMessageBlock("hello there", bt.NewStyles(murmur.DefaultTheme()))
	assert.Contains(t, b.View(40), "> hello there")
}

func TestAssistantMessageBlock(t *testing.T) {
	t.Parallel()

	theme := murmur.DefaultTheme()

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAssistantMessageBlock("# Menu\n\n- soup\n- bread", theme, bt.NewStyles(theme))
		out := b.View(40)
		assert.Contains(t, out, "Menu")
		assert.Contains(t, out, "soup")
		assert.NotContains(t, out, "# Menu")
		assert.Equal(t, murmur.ControlIdle, b.State())
	})

	t.Run("shows play control state", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAssistantMessageBlock("Done.", theme, bt.NewStyles(theme))
		_, cmd := b.Update(bt.PlaybackMsg{State: murmur.ControlPlaying})
		assert.Nil(t, cmd)
		assert.Equal(t, murmur.ControlPlaying, b.State())
		assert.Contains(t, b.View(40), "speaking")

		b.Update(bt.PlaybackMsg{State: murmur.ControlIdle})
		assert.NotContains(t, b.View(40), "speaking")
	})
}

func TestNewStyles(t *testing.T) {
	t.Parallel()

	s := bt.NewStyles(murmur.DefaultTheme())
	assert.True(t, s.Recording.GetBold())
	assert.True(t, s.Muted.GetFaint())
}
