package domain

// Zone is a coarse shipping-distance classification, used for display only.
type Zone string

const (
	ZoneFree   Zone = "gratis"
	ZoneNear   Zone = "proxima"
	ZoneMedium Zone = "media"
	ZoneFar    Zone = "distante"
	ZoneRemote Zone = "remota"
	ZoneCustom Zone = "custom"
)

// ZoneLabels maps zones to their storefront labels.
var ZoneLabels = map[Zone]string{
	ZoneFree:   "Grátis 🎉",
	ZoneNear:   "Zona Próxima",
	ZoneMedium: "Zona Média",
	ZoneFar:    "Zona Distante",
	ZoneRemote: "Zona Remota",
	ZoneCustom: "Taxa Padrão",
}

// NeighborhoodOther is the reserved "other/unlisted" sentinel entry. It is a
// permanent fallback carrying a flat fee and is not deletable through the
// admin flows.
const NeighborhoodOther = "outro"

// Neighborhood is a delivery area with its fee. Ids are derived from
// city + name + creation timestamp, except the reserved "outro" entry.
type Neighborhood struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	City string  `json:"city"`
	Fee  float64 `json:"fee"`
	Zone Zone    `json:"zone"`
}

// GroupByCity buckets neighborhoods by owning city, preserving first-seen
// city order and per-city entry order.
func GroupByCity(list []Neighborhood) ([]string, map[string][]Neighborhood) {
	var order []string
	groups := make(map[string][]Neighborhood)
	for _, n := range list {
		if _, seen := groups[n.City]; !seen {
			order = append(order, n.City)
		}
		groups[n.City] = append(groups[n.City], n)
	}
	return order, groups
}
