package mapper

import (
	"time"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToEstimateDTO converts Estimate to EstimateDTO
func ToEstimateDTO(e *domain.Estimate) domain.EstimateDTO {
	return domain.EstimateDTO{
		ID:               e.ID,
		ProjectType:      e.ProjectType,
		Length:           e.Length,
		Width:            e.Width,
		Height:           e.Height,
		Timeline:         e.Timeline,
		BrandID:          e.BrandID,
		CustomerName:     e.CustomerName,
		CustomerEmail:    e.CustomerEmail,
		CustomerMobile:   e.CustomerMobile,
		CustomerLocation: e.CustomerLocation,
		Fixtures:         e.Fixtures,
		FloorArea:        e.FloorArea,
		WallArea:         e.WallArea,
		TotalArea:        e.TotalArea,
		FixtureCost:      e.FixtureCost,
		PlumbingCost:     e.PlumbingCost,
		TileCount:        e.TileCount,
		TilingCost:       e.TilingTotal,
		ProductCost:      e.ProductCost,
		Total:            e.Total,
		CreatedAt:        formatTime(e.CreatedAt),
	}
}

// ToEstimateModel snapshots a calculated estimate for persistence
func ToEstimateModel(state costing.CalculatorState, result costing.EstimateResult) *domain.Estimate {
	return &domain.Estimate{
		ProjectType:        state.ProjectType,
		Length:             state.Dimensions.Length,
		Width:              state.Dimensions.Width,
		Height:             state.Dimensions.Height,
		Timeline:           state.Timeline,
		BrandID:            state.BrandID,
		CustomerName:       state.Customer.Name,
		CustomerEmail:      state.Customer.Email,
		CustomerMobile:     state.Customer.Mobile,
		CustomerLocation:   state.Customer.Location,
		Fixtures:           state.Fixtures.Clone(),
		FloorArea:          result.Geometry.FloorArea,
		WallArea:           result.Geometry.WallArea,
		TotalArea:          result.Geometry.TotalArea,
		FixtureCost:        result.FixtureCost,
		PlumbingCost:       result.PlumbingCost,
		TileCount:          result.TilingCost.FinalTileCount,
		TilingMaterialCost: result.TilingCost.MaterialCost,
		TilingLaborCost:    result.TilingCost.LaborCost,
		TilingTotal:        result.TilingCost.Total,
		ProductCost:        result.ProductCost,
		Total:              result.Total,
	}
}

// ToSettingDTO converts Setting to SettingDTO
func ToSettingDTO(s *domain.Setting) domain.SettingDTO {
	return domain.SettingDTO{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
}

// ToBrandDTO converts Brand to BrandDTO
func ToBrandDTO(b *domain.Brand) domain.BrandDTO {
	return domain.BrandDTO{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsActive:    b.IsActive,
	}
}

// ToCatalogItemDTO converts CatalogItem to CatalogItemDTO
func ToCatalogItemDTO(c *domain.CatalogItem) domain.CatalogItemDTO {
	dto := domain.CatalogItemDTO{
		ID:             c.ID,
		Name:           c.Name,
		Category:       c.Category,
		BrandID:        c.BrandID,
		MRP:            c.MRP,
		LandingPrice:   c.LandingPrice,
		ClientPrice:    c.ClientPrice,
		QuotationPrice: c.QuotationPrice,
		Margin:         c.Margin,
		UpdatedAt:      formatTime(c.UpdatedAt),
	}
	if c.Brand != nil {
		dto.BrandName = c.Brand.Name
	}
	return dto
}

// ToFixtureMappingDTO converts FixtureMapping to FixtureMappingDTO
func ToFixtureMappingDTO(m *domain.FixtureMapping) domain.FixtureMappingDTO {
	dto := domain.FixtureMappingDTO{
		FlagKey:       m.FlagKey,
		CatalogItemID: m.CatalogItemID,
	}
	if m.CatalogItem != nil {
		dto.CatalogItemName = m.CatalogItem.Name
	}
	return dto
}

// ToServiceRateDTO converts ServiceRate to RateDTO
func ToServiceRateDTO(r *domain.ServiceRate) domain.RateDTO {
	return domain.RateDTO{
		ID:       r.ID,
		Code:     r.Code,
		Name:     r.Name,
		Category: r.Category,
		Unit:     r.Unit,
		UnitKind: string(costing.ClassifyUnit(r.Unit)),
		Rate:     r.Rate,
	}
}

// ToTilingRateDTO converts TilingRate to RateDTO
func ToTilingRateDTO(r *domain.TilingRate) domain.RateDTO {
	return domain.RateDTO{
		ID:       r.ID,
		Code:     r.Code,
		Name:     r.Name,
		Unit:     r.Unit,
		UnitKind: string(costing.ClassifyUnit(r.Unit)),
		Rate:     r.Rate,
	}
}

// ToProjectDTO converts Project to ProjectDTO, including any loaded washrooms
func ToProjectDTO(p *domain.Project) domain.ProjectDTO {
	dto := domain.ProjectDTO{
		ID:                     p.ID,
		Name:                   p.Name,
		ClientName:             p.ClientName,
		ClientEmail:            p.ClientEmail,
		ClientMobile:           p.ClientMobile,
		Location:               p.Location,
		EstimateID:             p.EstimateID,
		OriginalEstimate:       p.OriginalEstimate,
		InternalPricingEnabled: p.InternalPricingEnabled,
		MarginPercentage:       p.MarginPercentage,
		GSTPercentage:          p.GSTPercentage,
		Terms:                  p.Terms,
		Status:                 p.Status,
		CreatedAt:              formatTime(p.CreatedAt),
		UpdatedAt:              formatTime(p.UpdatedAt),
	}
	if len(p.Washrooms) > 0 {
		dto.Washrooms = make([]domain.WashroomDTO, len(p.Washrooms))
		for i := range p.Washrooms {
			dto.Washrooms[i] = ToWashroomDTO(&p.Washrooms[i])
		}
	}
	return dto
}

// ToWashroomDTO converts Washroom to WashroomDTO
func ToWashroomDTO(w *domain.Washroom) domain.WashroomDTO {
	dto := domain.WashroomDTO{
		ID:                w.ID,
		ProjectID:         w.ProjectID,
		Name:              w.Name,
		Length:            w.Length,
		Width:             w.Width,
		Height:            w.Height,
		Area:              w.Area,
		WallArea:          w.WallArea,
		CeilingArea:       w.CeilingArea,
		TotalArea:         w.TotalArea,
		CeilingOverridden: w.CeilingOverridden,
		SelectedBrandID:   w.SelectedBrandID,
		Services:          make([]domain.WashroomServiceDTO, 0, len(w.Services)),
		Fixtures:          make([]domain.WashroomFixtureDTO, 0, len(w.Fixtures)),
	}
	for _, s := range w.Services {
		dto.Services = append(dto.Services, domain.WashroomServiceDTO{
			ServiceCode:  s.ServiceCode,
			Quantity:     s.Quantity,
			Area:         s.Area,
			RateOverride: s.RateOverride,
		})
	}
	for _, f := range w.Fixtures {
		fixture := domain.WashroomFixtureDTO{
			CatalogItemID: f.CatalogItemID,
			Quantity:      f.Quantity,
		}
		if f.CatalogItem != nil {
			fixture.Name = f.CatalogItem.Name
		}
		dto.Fixtures = append(dto.Fixtures, fixture)
	}
	return dto
}

// ToCostItemDTO converts CostItem to CostItemDTO
func ToCostItemDTO(c *domain.CostItem) domain.CostItemDTO {
	return domain.CostItemDTO{
		ID:          c.ID,
		ProjectID:   c.ProjectID,
		Name:        c.Name,
		Description: c.Description,
		Amount:      c.Amount,
		Category:    c.Category,
		CreatedAt:   formatTime(c.CreatedAt),
	}
}

// ToQuotationDTO converts Quotation to QuotationDTO. The rendered HTML is served separately.
func ToQuotationDTO(q *domain.Quotation) domain.QuotationDTO {
	return domain.QuotationDTO{
		ID:              q.ID,
		ProjectID:       q.ProjectID,
		QuotationNumber: q.QuotationNumber,
		TotalAmount:     q.TotalAmount,
		Terms:           q.Terms,
		ValidUntil:      q.ValidUntil.Format("2006-01-02"),
		StoragePath:     q.StoragePath,
		Summary:         q.Summary,
		CreatedAt:       formatTime(q.CreatedAt),
	}
}

// ToWashroomInput converts a stored washroom and its selections to costing input
func ToWashroomInput(w *domain.Washroom) costing.WashroomInput {
	in := costing.WashroomInput{
		ID:       w.ID,
		Name:     w.Name,
		Geometry: w.Geometry(),
		Services: make([]costing.ServiceSelection, 0, len(w.Services)),
		Fixtures: make([]costing.FixtureLine, 0, len(w.Fixtures)),
	}
	for _, s := range w.Services {
		in.Services = append(in.Services, costing.ServiceSelection{
			Code:         s.ServiceCode,
			Quantity:     s.Quantity,
			Area:         s.Area,
			RateOverride: s.RateOverride,
		})
	}
	for _, f := range w.Fixtures {
		in.Fixtures = append(in.Fixtures, costing.FixtureLine{
			CatalogItemID: f.CatalogItemID,
			Quantity:      f.Quantity,
		})
	}
	return in
}
