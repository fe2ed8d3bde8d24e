package constants

// Маршрутизация событий в RabbitMQ.
const (
	ExchangeName                = "parser_exchange"
	RoutingKeyProcessedListings = "realtylink.listings.parsed"
)
