package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/settings"
	"github.com/ZamarianPatrick/lazypig-care/store/storetest"
	"github.com/ZamarianPatrick/lazypig-care/wizard"
)

func TestController_StartStop(t *testing.T) {
	s := settings.DefaultSettings
	c, err := NewController(&s, Dependencies{
		Store:    storetest.Open(t),
		Provider: wizard.NewFakeProvider(),
		Log:      logger.Discard(),
	})
	require.NoError(t, err)

	require.NoError(t, c.Start())
	c.Stop()
	c.Stop()
}

func TestController_InvalidTimezone(t *testing.T) {
	s := settings.DefaultSettings
	s.QuotaTimezone = "Mars/Olympus_Mons"

	_, err := NewController(&s, Dependencies{
		Store:    storetest.Open(t),
		Provider: wizard.NewFakeProvider(),
		Log:      logger.Discard(),
	})
	assert.Error(t, err)
}
