package domain

// Bundled default dataset used on first activation, before the admin has
// saved anything. Once a collection is persisted, the stored copy wins.

var DefaultCategories = []Category{
	{ID: "todos", Label: "Todos"},
	{ID: "classicos", Label: "Clássicos"},
	{ID: "recheados", Label: "Recheados"},
	{ID: "especiais", Label: "Especiais"},
	{ID: "doces", Label: "Doces"},
}

var DefaultProducts = []Product{
	{
		ID: 1, Name: "Bolo de Cenoura com Chocolate", Price: 49.9,
		PriceFormatted: "R$ 49,90", Image: "/images/bolo-cenoura.jpg",
		Category: "classicos", Badge: "mais vendido",
		Description: "Massa fofinha de cenoura com cobertura cremosa de chocolate.",
	},
	{
		ID: 2, Name: "Bolo de Fubá Cremoso", Price: 42.0,
		PriceFormatted: "R$ 42,00", Image: "/images/bolo-fuba.jpg",
		Category: "classicos",
		Description: "Receita de família, com queijo e erva-doce.",
	},
	{
		ID: 3, Name: "Bolo Red Velvet", Price: 89.9,
		PriceFormatted: "R$ 89,90", Image: "/images/red-velvet.jpg",
		Category: "especiais", Badge: "novidade",
		Description: "Camadas aveludadas com cream cheese e frutas vermelhas.",
	},
	{
		ID: 4, Name: "Bolo de Ninho com Morango", Price: 79.9,
		PriceFormatted: "R$ 79,90", Image: "/images/ninho-morango.jpg",
		Category: "recheados", Badge: "favorito",
		Description: "Recheio de leite Ninho com morangos frescos.",
	},
	{
		ID: 5, Name: "Bolo de Chocolate Belga", Price: 94.9,
		PriceFormatted: "R$ 94,90", Image: "/images/chocolate-belga.jpg",
		Category: "recheados",
		Description: "Ganache de chocolate belga meio amargo, intensa e brilhante.",
	},
	{
		ID: 6, Name: "Bolo de Coco Gelado", Price: 54.9,
		PriceFormatted: "R$ 54,90", Image: "/images/coco-gelado.jpg",
		Category: "classicos",
		Description: "Bem molhadinho, com calda de coco e cobertura de flocos.",
	},
	{
		ID: 7, Name: "Torta de Limão", Price: 62.0,
		PriceFormatted: "R$ 62,00", Image: "/images/torta-limao.jpg",
		Category: "doces", Badge: "refrescante",
		Description: "Base crocante, creme azedinho de limão e merengue maçaricado.",
	},
	{
		ID: 8, Name: "Brigadeiro Gourmet (cento)", Price: 120.0,
		PriceFormatted: "R$ 120,00", Image: "/images/brigadeiro.jpg",
		Category: "doces",
		Description: "Cento de brigadeiros feitos com chocolate 50% cacau.",
	},
}

var DefaultNeighborhoods = []Neighborhood{
	// Vitória da Conquista
	{ID: "vca_centro", Name: "Centro", City: "Vitória da Conquista", Fee: 0, Zone: ZoneFree},
	{ID: "vca_recreio", Name: "Recreio", City: "Vitória da Conquista", Fee: 0, Zone: ZoneFree},
	{ID: "vca_candeias", Name: "Candeias", City: "Vitória da Conquista", Fee: 5.0, Zone: ZoneNear},
	{ID: "vca_bairro_brasil", Name: "Bairro Brasil", City: "Vitória da Conquista", Fee: 5.0, Zone: ZoneNear},
	{ID: "vca_alto_maron", Name: "Alto Maron", City: "Vitória da Conquista", Fee: 5.0, Zone: ZoneNear},
	{ID: "vca_felicia", Name: "Felícia", City: "Vitória da Conquista", Fee: 8.0, Zone: ZoneMedium},
	{ID: "vca_ibirapuera", Name: "Ibirapuera", City: "Vitória da Conquista", Fee: 8.0, Zone: ZoneMedium},

	// Barra do Choça
	{ID: "barra_centro", Name: "Centro", City: "Barra do Choça", Fee: 25.0, Zone: ZoneRemote},

	// Fallback entry for unlisted neighborhoods.
	{ID: NeighborhoodOther, Name: "Outro Bairro (Digitar)", City: "Outra", Fee: 15.0, Zone: ZoneCustom},
}

// DefaultCities derives the city list from the default neighborhoods,
// deduplicated in first-seen order.
func DefaultCities() []string {
	order, _ := GroupByCity(DefaultNeighborhoods)
	return order
}
