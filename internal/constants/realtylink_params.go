package constants

import "realtylink-parser-service/internal/core/domain"

const (
	// BaseURL — корень сайта, относительные ссылки из выдачи абсолютизируются от него.
	BaseURL = "https://realtylink.org"

	// AllowedDomain для коллектора.
	AllowedDomain = "realtylink.org"

	// CategoryForRentURL — выдача "Residential: For Rent".
	CategoryForRentURL = "https://realtylink.org/en/properties~for-rent?uc=0"
)

// DefaultTargetCount — максимум записей за один запуск.
const DefaultTargetCount = 60

// GetDefaultSearch возвращает критерии запуска по умолчанию.
func GetDefaultSearch() domain.SearchCriteria {
	return domain.SearchCriteria{
		Name:        "Residential_ForRent",
		CategoryURL: CategoryForRentURL,
		TargetCount: DefaultTargetCount,
	}
}
