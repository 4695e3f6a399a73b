package domain

import "sync"

// PriceCategory - стратегия расчета стоимости проката и бонусных баллов.
// Набор категорий закрыт: реализации есть только в этом пакете.
type PriceCategory interface {
	// Charge возвращает стоимость проката за daysRented дней
	Charge(daysRented int) float64
	// FrequentRenterPoints возвращает бонусные баллы за прокат
	FrequentRenterPoints(daysRented int) int
	// String возвращает имя категории, под которым она хранится и регистрируется
	String() string

	priceCategory()
}

// Имена категорий
const (
	RegularName    = "Regular"
	ChildrenName   = "Children"
	NewReleaseName = "New Release"
)

// Известные категории (stateless, безопасны для конкурентного чтения)
var (
	Regular    PriceCategory = regularPrice{}
	Children   PriceCategory = childrenPrice{}
	NewRelease PriceCategory = newReleasePrice{}
)

// basePoints - один балл за любой прокат длительностью больше нуля дней
func basePoints(daysRented int) int {
	if daysRented <= 0 {
		return 0
	}
	return 1
}

// regularPrice: 2 за первые два дня, затем 1.5 за каждый следующий день
type regularPrice struct{}

func (regularPrice) Charge(daysRented int) float64 {
	if daysRented <= 0 {
		return 0
	}
	result := 2.0
	if daysRented > 2 {
		result += float64(daysRented-2) * 1.5
	}
	return result
}

func (regularPrice) FrequentRenterPoints(daysRented int) int { return basePoints(daysRented) }
func (regularPrice) String() string                          { return RegularName }
func (regularPrice) priceCategory()                          {}

// childrenPrice: 1.5 за первые три дня, затем 1.5 за каждый следующий день
type childrenPrice struct{}

func (childrenPrice) Charge(daysRented int) float64 {
	if daysRented <= 0 {
		return 0
	}
	result := 1.5
	if daysRented > 3 {
		result += float64(daysRented-3) * 1.5
	}
	return result
}

func (childrenPrice) FrequentRenterPoints(daysRented int) int { return basePoints(daysRented) }
func (childrenPrice) String() string                          { return ChildrenName }
func (childrenPrice) priceCategory()                          {}

// newReleasePrice: 3 за каждый день, бонусный балл за прокат дольше одного дня
type newReleasePrice struct{}

func (newReleasePrice) Charge(daysRented int) float64 {
	if daysRented <= 0 {
		return 0
	}
	return float64(daysRented) * 3
}

func (newReleasePrice) FrequentRenterPoints(daysRented int) int {
	if daysRented > 1 {
		return 2
	}
	return basePoints(daysRented)
}

func (newReleasePrice) String() string { return NewReleaseName }
func (newReleasePrice) priceCategory() {}

// PriceCategoryRegistry сопоставляет имя категории со стратегией.
// Заполняется при старте приложения, дальше используется только на чтение.
type PriceCategoryRegistry struct {
	mu         sync.RWMutex
	categories map[string]PriceCategory
}

// NewPriceCategoryRegistry создает пустой реестр
func NewPriceCategoryRegistry() *PriceCategoryRegistry {
	return &PriceCategoryRegistry{
		categories: make(map[string]PriceCategory),
	}
}

// Register добавляет или перезаписывает категорию
func (r *PriceCategoryRegistry) Register(name string, pc PriceCategory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[name] = pc
}

// RegisterDefaults регистрирует все известные категории
func (r *PriceCategoryRegistry) RegisterDefaults() *PriceCategoryRegistry {
	for _, pc := range []PriceCategory{Regular, Children, NewRelease} {
		r.Register(pc.String(), pc)
	}
	return r
}

// Lookup ищет категорию по точному имени (с учетом регистра)
func (r *PriceCategoryRegistry) Lookup(name string) (PriceCategory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pc, ok := r.categories[name]
	return pc, ok
}

// Names возвращает имена зарегистрированных категорий
func (r *PriceCategoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	return names
}
