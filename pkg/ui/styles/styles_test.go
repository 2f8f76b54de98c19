package styles_test

import (
	"testing"

	"github.com/arthur-debert/railup/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Run("known_style", func(t *testing.T) {
		style := styles.Get("Error")
		assert.True(t, style.GetBold())
	})

	t.Run("unknown_style_returns_zero_style", func(t *testing.T) {
		style := styles.Get("NoSuchStyle")
		assert.False(t, style.GetBold())
	})
}
