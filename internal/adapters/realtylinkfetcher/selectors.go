package realtylinkfetcher

// CSS-селекторы страниц realtylink.org
const (
	// Страница выдачи
	selListingLink = "a.a-more-detail"
	selNextButton  = "li.next"

	// Страница объявления
	selTitle       = `span[data-id="PageTitle"]`
	selAddress     = `h2[itemprop="address"]`
	selDescription = `div[itemprop="description"]`
	selRooms       = "div.cac"
	selAreaValue   = "div.carac-value span"
	selPriceMeta   = `meta[itemprop="price"]`
	selPriceText   = "span.text-nowrap"

	// Маркер script-тега с массивом фотографий
	mosaicPhotoMarker = "window.MosaicPhotoUrls"

	// Класс, которым выдача помечает неактивную кнопку пагинации
	inactiveClass = "inactive"
)
