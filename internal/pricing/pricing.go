// Package pricing resolves service line items and cart totals for drone
// service proposals, including the split of revenue between the two
// operating companies of the holding.
package pricing

import (
	"fmt"
	"strings"
)

// ContractType identifies the acquisition model of a proposal. The values
// are the display strings persisted with each closed deal.
type ContractType string

const (
	ContractRental   ContractType = "Comodato (Aluguel)"
	ContractPurchase ContractType = "Venda + Software (SaaS)"
)

// ParseContractType maps a form value to a ContractType.
func ParseContractType(raw string) (ContractType, error) {
	switch ContractType(raw) {
	case ContractRental:
		return ContractRental, nil
	case ContractPurchase:
		return ContractPurchase, nil
	}
	return "", fmt.Errorf("modelo de contrato inválido: %q", raw)
}

// ServiceCategory tags a line item with the service it prices. Revenue
// attribution between the entities is decided by this tag, not by the
// item name.
type ServiceCategory string

const (
	CategorySurveillance ServiceCategory = "Monitoramento"
	CategoryVolumetry    ServiceCategory = "Volumetria"
	CategoryInspection   ServiceCategory = "Inspeções"
	CategoryMapping      ServiceCategory = "Mapeamento"
)

// Entity labels used in revenue attribution and persisted deals.
const (
	EntitySkyhawk = "SkyHawk Security"
	EntityAmazing = "AmazingDrone Solutions"
	EntityHybrid  = "CONTRATO HÍBRIDO"
	EntityNone    = "—"
)

const (
	includedRounds = 3
	extraRoundRate = 850.00
	volumetryRate  = 2000.00
)

// Tier is one duration bracket of a surveillance price table.
type Tier struct {
	Schedule string
	Label    string
	Price    float64
}

type tierRow struct {
	maxMonths int
	price     float64
	label     string
}

// Rental mensalities amortize the equipment inside the contract term; the
// 12-month row prices full asset coverage plus a 30% risk margin in one year.
var rentalTiers = []tierRow{
	{12, 46000, "1 Ano (Alto Risco + 30% Margem)"},
	{24, 34000, "2 Anos"},
	{36, 30000, "3 Anos (Padrão)"},
	{48, 28000, "4 Anos"},
	{0, 26000, "5 Anos"},
}

var purchaseTiers = []tierRow{
	{12, 26000, "1 Ano"},
	{24, 24000, "2 Anos"},
	{36, 22000, "3 Anos (Padrão)"},
	{48, 20500, "4 Anos"},
	{0, 19000, "5 Anos"},
}

// ResolveSurveillancePrice returns the base monthly price tier for a
// surveillance contract. The lookup is a step function over the duration:
// values between boundaries snap to the enclosing bracket and anything
// above 48 months falls into the 5-year row.
func ResolveSurveillancePrice(contract ContractType, durationMonths int) (Tier, error) {
	if durationMonths < 1 {
		return Tier{}, fmt.Errorf("duração em meses deve ser no mínimo 1, recebido %d", durationMonths)
	}

	rows := purchaseTiers
	schedule := "SaaS (Venda)"
	if contract == ContractRental {
		rows = rentalTiers
		schedule = "Comodato"
	}

	for _, row := range rows {
		if row.maxMonths == 0 || durationMonths <= row.maxMonths {
			return Tier{Schedule: schedule, Label: row.label, Price: row.price}, nil
		}
	}

	return Tier{}, fmt.Errorf("nenhuma faixa de preço para %d meses", durationMonths)
}

// LineItem is one priced service in a proposal cart.
type LineItem struct {
	Name      string
	Category  ServiceCategory
	Quantity  float64
	Unit      string
	UnitPrice float64
	Total     float64
}

// SurveillanceLine prices a monthly surveillance service: the tier price
// includes three rounds, each extra round adds a fixed surcharge.
func SurveillanceLine(tier Tier, extraRounds int) (LineItem, error) {
	if extraRounds < 0 {
		return LineItem{}, fmt.Errorf("rondas extras deve ser maior ou igual a 0, recebido %d", extraRounds)
	}
	if tier.Price < 0 {
		return LineItem{}, fmt.Errorf("preço base da faixa deve ser maior ou igual a 0")
	}

	quantity := float64(includedRounds + extraRounds)
	total := tier.Price + float64(extraRounds)*extraRoundRate

	return LineItem{
		Name:      fmt.Sprintf("Monitoramento %s (%s)", tier.Schedule, tier.Label),
		Category:  CategorySurveillance,
		Quantity:  quantity,
		Unit:      "rondas",
		UnitPrice: total / quantity,
		Total:     total,
	}, nil
}

// VolumetryLine prices a batch of volumetric surveys at the fixed
// per-volume-per-battery rate.
func VolumetryLine(volumes, batteries int) (LineItem, error) {
	if volumes < 1 {
		return LineItem{}, fmt.Errorf("quantidade de volumes deve ser no mínimo 1, recebido %d", volumes)
	}
	if batteries < 1 {
		return LineItem{}, fmt.Errorf("quantidade de baterias deve ser no mínimo 1, recebido %d", batteries)
	}

	total := float64(volumes) * float64(batteries) * volumetryRate
	return LineItem{
		Name:      fmt.Sprintf("Volumetria (%d Bat)", batteries),
		Category:  CategoryVolumetry,
		Quantity:  float64(volumes),
		Unit:      "vols",
		UnitPrice: total / float64(volumes),
		Total:     total,
	}, nil
}

// GenericLine prices a free-form service (inspection, mapping) as
// quantity times unit value.
func GenericLine(category ServiceCategory, quantity int, unitValue float64) (LineItem, error) {
	if category == CategorySurveillance || category == CategoryVolumetry {
		return LineItem{}, fmt.Errorf("categoria %s possui precificação própria", category)
	}
	if quantity < 1 {
		return LineItem{}, fmt.Errorf("quantidade deve ser no mínimo 1, recebido %d", quantity)
	}
	if unitValue < 0 {
		return LineItem{}, fmt.Errorf("valor unitário deve ser maior ou igual a 0")
	}

	return LineItem{
		Name:      string(category),
		Category:  category,
		Quantity:  float64(quantity),
		Unit:      "unid",
		UnitPrice: unitValue,
		Total:     float64(quantity) * unitValue,
	}, nil
}

// Cart is the ordered set of line items of the proposal being assembled.
// It is owned by a single session and passed by value into computations.
type Cart struct {
	Items []LineItem
}

// Add appends an item to the cart.
func (c *Cart) Add(item LineItem) {
	c.Items = append(c.Items, item)
}

// RemoveAt drops the item at the given position.
func (c *Cart) RemoveAt(i int) error {
	if i < 0 || i >= len(c.Items) {
		return fmt.Errorf("item %d fora do carrinho", i)
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

// Clear empties the cart after a deal is closed.
func (c *Cart) Clear() {
	c.Items = nil
}

// Summary joins item names into the human-readable service summary
// persisted with a closed deal.
func (c Cart) Summary() string {
	names := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}

// RevenueSplit attributes the cart total to the operating companies.
type RevenueSplit struct {
	Total        float64
	Skyhawk      float64
	Amazing      float64
	OwningEntity string
}

// ComputeTotals sums the cart and splits revenue by service category:
// surveillance belongs to SkyHawk Security, everything else to
// AmazingDrone Solutions. The result does not depend on item order.
func ComputeTotals(cart Cart) RevenueSplit {
	split := RevenueSplit{}
	for _, item := range cart.Items {
		split.Total += item.Total
		if item.Category == CategorySurveillance {
			split.Skyhawk += item.Total
		} else {
			split.Amazing += item.Total
		}
	}

	switch {
	case split.Skyhawk > 0 && split.Amazing > 0:
		split.OwningEntity = EntityHybrid
	case split.Amazing > 0:
		split.OwningEntity = EntityAmazing
	case split.Skyhawk > 0:
		split.OwningEntity = EntitySkyhawk
	default:
		split.OwningEntity = EntityNone
	}
	return split
}
