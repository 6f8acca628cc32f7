package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvRenderer_Render(t *testing.T) {
	// given
	events := []DisplayEvent{
		{Start: date(2024, 1, 1), End: date(2024, 1, 3), Title: "Kitchen: Dishes, pots", Calendar: "1", Kind: KindEvent, Color: Palette[1]},
		{Title: "🧼 Cleaning time: Garage", Calendar: "4", Kind: KindCleaning, Color: CleaningColor, Invalid: true},
	}

	// when
	out, err := NewCsvRenderer().Render(events)

	// then
	require.NoError(t, err)
	assert.Equal(t, "Start,End,Title,Calendar,Kind,Color\n"+
		"2024-01-01,2024-01-02,\"Kitchen: Dishes, pots\",1,event,#AEDCF9\n"+
		"invalid,invalid,🧼 Cleaning time: Garage,4,cleaning,#ffe5ec\n", out)
}
