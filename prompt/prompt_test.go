package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSystemPromptModes(t *testing.T) {
	chatPrompt := BuildSystemPrompt(ModeChat, "tr")
	require.Contains(t, chatPrompt, "AI asistanısın")

	medical := BuildSystemPrompt(ModeMedical, "tr")
	require.Contains(t, medical, "sağlık danışmanısın")
	require.Contains(t, medical, "ASLA teşhis koyma")

	hotel := BuildSystemPrompt(ModeHotel, "en")
	require.Contains(t, hotel, "Hotel Concierge AI")

	fallback := BuildSystemPrompt("bogus-mode", "tr")
	require.Contains(t, fallback, "Hangi konuda bilgi almak istiyorsunuz?")
}

func TestBuildSystemPromptSubstitutesLanguage(t *testing.T) {
	p := BuildSystemPrompt(ModeChat, "de")
	require.Contains(t, p, "German")
	require.NotContains(t, p, "{{LANG}}")

	// Unknown language tags resolve to English
	p = BuildSystemPrompt(ModeChat, "xx")
	require.Contains(t, p, "English")
}

func TestBuildSystemPromptIsDeterministic(t *testing.T) {
	a := BuildSystemPrompt(ModeHotel, "ru")
	b := BuildSystemPrompt(ModeHotel, "ru")
	require.Equal(t, a, b)
}

func TestHotelPromptEmbedsHotelData(t *testing.T) {
	p := BuildSystemPrompt(ModeHotel, "en")
	require.Contains(t, p, "We have 2 hotels")
	require.Contains(t, p, "Sunrise Hotel")
	require.Contains(t, p, "Mountain Lodge")
	require.Contains(t, p, "Standart Oda")
	require.Contains(t, p, "1800₺/gece")
	require.Contains(t, p, "reply ONLY in English")
}

func TestHotelLookups(t *testing.T) {
	h, ok := HotelByID("sunrise-hotel")
	require.True(t, ok)
	require.Equal(t, "Sunrise Hotel", h.Name)

	_, ok = HotelByID("no-such-hotel")
	require.False(t, ok)

	rooms := AvailableRooms("sunrise-hotel")
	require.Len(t, rooms, 4)
	for _, r := range rooms {
		require.Greater(t, r.AvailableCount, 0)
	}

	list := FormatHotelList()
	require.Equal(t, 2, strings.Count(list, "• "))
}

func TestFormatHotelDetails(t *testing.T) {
	h, _ := HotelByID("mountain-lodge")
	details := FormatHotelDetails(h)
	require.Contains(t, details, "Mountain Lodge - Bolu, Türkiye")
	require.Contains(t, details, "Check-in: 15:00 | Check-out: 11:00")
	require.Contains(t, details, "Ahşap Kulübe")
	require.Contains(t, details, "Müsait: 3 adet")
	require.Contains(t, details, "info@mountainlodge.com")
}
