package prompt

import (
	"fmt"
	"strings"
)

// Room is a bookable room type within a hotel.
type Room struct {
	Type           string
	PricePerNight  int
	Bed            string
	Capacity       int
	AvailableCount int
	Description    string
	Includes       []string
}

// Contact holds a hotel's contact information.
type Contact struct {
	Phone   string
	Email   string
	Address string
}

// Hotel is a static hotel record used by the hotel concierge prompt.
type Hotel struct {
	ID          string
	Name        string
	Location    string
	Description string
	CheckIn     string
	CheckOut    string
	Amenities   []string
	Activities  []string
	Rooms       []Room
	Contact     Contact
}

var hotels = []Hotel{
	{
		ID:          "sunrise-hotel",
		Name:        "Sunrise Hotel",
		Location:    "Antalya, Türkiye",
		Description: "Denize sıfır, aile dostu bir otel. Spa, açık havuz ve restoran hizmetleriyle rahat bir tatil sunar.",
		CheckIn:     "14:00",
		CheckOut:    "12:00",
		Amenities: []string{
			"Ücretsiz Wi-Fi", "Açık havuz", "Otopark", "Spa", "Havaalanı servisi",
			"Evcil hayvan kabul edilir", "Restoran", "Bar", "Fitness merkezi",
			"Çocuk oyun alanı", "24 saat resepsiyon", "Klima",
		},
		Activities: []string{
			"Gün batımı tekne turu", "Yoga seansı", "Su sporları", "Çocuk kulübü",
			"Masa tenisi", "Bisiklet kiralama", "Dalış turları", "Şehir turları",
		},
		Rooms: []Room{
			{
				Type: "Standart Oda", PricePerNight: 1800, Bed: "1 çift kişilik yatak",
				Capacity: 2, AvailableCount: 5,
				Description: "Deniz manzaralı, klima, minibar, balkonlu.",
				Includes:    []string{"Kahvaltı", "Temizlik servisi", "TV", "Klima", "Minibar"},
			},
			{
				Type: "Deluxe Oda", PricePerNight: 2400, Bed: "1 büyük çift kişilik yatak",
				Capacity: 3, AvailableCount: 2,
				Description: "Jakuzili banyo, geniş balkon, ücretsiz minibar.",
				Includes:    []string{"Kahvaltı", "Spa indirimi", "TV", "Klima", "Jakuzi", "Balkon"},
			},
			{
				Type: "Aile Odası", PricePerNight: 3200, Bed: "1 çift + 2 tek kişilik yatak",
				Capacity: 4, AvailableCount: 1,
				Description: "İki ayrı oda, çocuklar için güvenli alan.",
				Includes:    []string{"Kahvaltı", "Akşam yemeği", "Mini buzdolabı", "Çocuk yatağı", "TV"},
			},
			{
				Type: "Suit Oda", PricePerNight: 4500, Bed: "1 çift kişilik yatak + oturma alanı",
				Capacity: 2, AvailableCount: 1,
				Description: "Lüks suit, deniz manzaralı, özel teras.",
				Includes:    []string{"Kahvaltı", "Akşam yemeği", "Spa ücretsiz", "Özel teras", "Butler servisi"},
			},
		},
		Contact: Contact{
			Phone:   "+90 555 123 4567",
			Email:   "info@sunrisehotel.com",
			Address: "Liman Mah. Sahil Cad. No:12, Antalya",
		},
	},
	{
		ID:          "mountain-lodge",
		Name:        "Mountain Lodge",
		Location:    "Bolu, Türkiye",
		Description: "Doğanın kalbinde, dağ manzaralı huzurlu bir kaçamak. Doğa yürüyüşü ve kamp aktiviteleri.",
		CheckIn:     "15:00",
		CheckOut:    "11:00",
		Amenities: []string{
			"Ücretsiz Wi-Fi", "Restoran", "Bar", "Şömine", "Doğa yürüyüşü parkurları",
			"Kamp alanı", "Otopark", "Evcil hayvan kabul edilir",
		},
		Activities: []string{
			"Doğa yürüyüşü", "Kamp", "Fotoğrafçılık", "Bisiklet turları",
			"Kuş gözlemi", "Yıldız gözlemi",
		},
		Rooms: []Room{
			{
				Type: "Ahşap Kulübe", PricePerNight: 1200, Bed: "1 çift kişilik yatak",
				Capacity: 2, AvailableCount: 3,
				Description: "Doğal ahşap kulübe, şömine, dağ manzaralı.",
				Includes:    []string{"Kahvaltı", "Şömine", "TV", "Klima"},
			},
			{
				Type: "Aile Kulübesi", PricePerNight: 1800, Bed: "1 çift + 2 tek kişilik yatak",
				Capacity: 4, AvailableCount: 2,
				Description: "Geniş aile kulübesi, iki yatak odalı.",
				Includes:    []string{"Kahvaltı", "Akşam yemeği", "Şömine", "TV"},
			},
		},
		Contact: Contact{
			Phone:   "+90 555 987 6543",
			Email:   "info@mountainlodge.com",
			Address: "Yedigöller Milli Parkı, Bolu",
		},
	},
}

// AllHotels returns the static hotel records.
func AllHotels() []Hotel {
	return hotels
}

// HotelByID looks a hotel up by its id.
func HotelByID(id string) (Hotel, bool) {
	for _, h := range hotels {
		if h.ID == id {
			return h, true
		}
	}
	return Hotel{}, false
}

// AvailableRooms returns the rooms of a hotel with availability left.
func AvailableRooms(hotelID string) []Room {
	h, ok := HotelByID(hotelID)
	if !ok {
		return nil
	}
	var out []Room
	for _, r := range h.Rooms {
		if r.AvailableCount > 0 {
			out = append(out, r)
		}
	}
	return out
}

// FormatHotelList renders a one-line-per-hotel summary.
func FormatHotelList() string {
	lines := make([]string, 0, len(hotels))
	for _, h := range hotels {
		lines = append(lines, fmt.Sprintf("• %s (%s) - %s", h.Name, h.Location, h.Description))
	}
	return strings.Join(lines, "\n")
}

// FormatHotelDetails renders the full record of a single hotel.
func FormatHotelDetails(h Hotel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n%s\n\n", h.Name, h.Location, h.Description)
	fmt.Fprintf(&b, "Check-in: %s | Check-out: %s\n\n", h.CheckIn, h.CheckOut)

	b.WriteString("Oda Seçenekleri:\n")
	roomBlocks := make([]string, 0, len(h.Rooms))
	for _, r := range h.Rooms {
		roomBlocks = append(roomBlocks, fmt.Sprintf(
			"• %s (%d kişilik): %d₺/gece\n   %s\n   İçerir: %s\n   Müsait: %d adet",
			r.Type, r.Capacity, r.PricePerNight, r.Description,
			strings.Join(r.Includes, ", "), r.AvailableCount,
		))
	}
	b.WriteString(strings.Join(roomBlocks, "\n\n"))

	fmt.Fprintf(&b, "\n\nÖzellikler: %s\n\n", strings.Join(h.Amenities, ", "))
	fmt.Fprintf(&b, "Aktiviteler: %s\n\n", strings.Join(h.Activities, ", "))
	fmt.Fprintf(&b, "İletişim: %s | %s\nAdres: %s", h.Contact.Phone, h.Contact.Email, h.Contact.Address)
	return b.String()
}

// formatAllHotels renders every hotel, separated for readability
// inside a prompt.
func formatAllHotels() string {
	blocks := make([]string, 0, len(hotels))
	for _, h := range hotels {
		blocks = append(blocks, FormatHotelDetails(h))
	}
	return strings.Join(blocks, "\n\n"+strings.Repeat("=", 50)+"\n\n")
}

// hotelNames returns the comma-joined hotel names.
func hotelNames() string {
	names := make([]string, 0, len(hotels))
	for _, h := range hotels {
		names = append(names, h.Name)
	}
	return strings.Join(names, ", ")
}
