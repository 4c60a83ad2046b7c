package estate

import (
	"strings"
	"time"

	"github.com/estatekit/backend/internal/domain/shared"
)

// House represents a plot/dwelling on the estate
type House struct {
	shared.BaseAggregateRoot
	HouseNumber string `json:"house_number"`
	Street      string `json:"street"`
	PlotCount   int    `json:"plot_count"`
	Active      bool   `json:"active"`
}

// NewHouse creates a new house
func NewHouse(houseNumber, street string, plotCount int) (*House, error) {
	if strings.TrimSpace(houseNumber) == "" {
		return nil, shared.NewDomainError("INVALID_HOUSE_NUMBER", "House number cannot be empty")
	}
	if plotCount < 1 {
		return nil, shared.NewDomainError("INVALID_PLOT_COUNT", "Plot count must be at least 1")
	}

	return &House{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		HouseNumber:       houseNumber,
		Street:            street,
		PlotCount:         plotCount,
		Active:            true,
	}, nil
}

// SetPlotCount updates the plot count. The mutation is policy-sensitive and is
// reached only through an approved plot-count-change request.
func (h *House) SetPlotCount(plotCount int) error {
	if plotCount < 1 {
		return shared.NewDomainError("INVALID_PLOT_COUNT", "Plot count must be at least 1")
	}
	h.PlotCount = plotCount
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	return nil
}

// Deactivate marks the house inactive; inactive houses are excluded from levy runs
func (h *House) Deactivate() {
	h.Active = false
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
}
