package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

// SupplierUseCase casos de uso de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
	now  func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, now: time.Now}
}

// Create crea un proveedor. name y email son obligatorios.
func (uc *SupplierUseCase) Create(ctx context.Context, createdBy string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return nil, domain.Invalid("name y email son requeridos")
	}
	if createdBy == "" {
		createdBy = "system"
	}
	now := uc.now()
	s := &entity.Supplier{
		ID:           uuid.New().String(),
		BusinessType: "corporation",
		Currency:     "USD",
		Status:       entity.SupplierStatusActive,
		SupplierType: "manufacturer",
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := applySupplier(s, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// Update aplica cambios parciales.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name no puede estar vacío")
	}
	if err := applySupplier(s, in); err != nil {
		return nil, err
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Delete elimina un proveedor; con productos asociados el repositorio devuelve ErrReferenced.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// List lista proveedores con filtros y paginación por página.
func (uc *SupplierUseCase) List(ctx context.Context, q dto.SupplierListQuery) (*dto.SupplierListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}
	sortBy := q.SortBy
	switch sortBy {
	case "createdAt":
		sortBy = "created_at"
	case "name", "created_at", "rating", "status":
	default:
		sortBy = "name"
	}
	list, total, err := uc.repo.List(ctx, repository.SupplierFilter{
		Search:         strings.TrimSpace(q.Search),
		Status:         q.Status,
		SupplierType:   q.SupplierType,
		BusinessType:   q.BusinessType,
		Category:       q.Category,
		RatingMin:      q.RatingMin,
		RatingMax:      q.RatingMax,
		CreditLimitMin: q.CreditLimitMin,
		CreditLimitMax: q.CreditLimitMax,
		CreatedFrom:    q.CreatedFrom,
		CreatedTo:      q.CreatedTo,
		SortBy:         sortBy,
		SortDesc:       strings.EqualFold(q.SortOrder, "desc"),
		Limit:          q.Limit,
		Offset:         (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{Data: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// Summary estadísticas de proveedores: estados, tipos, desempeño por rating, top y recientes.
func (uc *SupplierUseCase) Summary(ctx context.Context) (*dto.SupplierSummaryResponse, error) {
	all, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	total := len(all)
	out := &dto.SupplierSummaryResponse{TotalSuppliers: total, AverageRating: decimal.Zero}

	typeCount := map[string]int{}
	var typeOrder []string
	var rated []*entity.Supplier
	for _, s := range all {
		switch s.Status {
		case entity.SupplierStatusActive:
			out.ActiveSuppliers++
		case entity.SupplierStatusInactive:
			out.InactiveSuppliers++
		case entity.SupplierStatusSuspended:
			out.SuspendedSuppliers++
		case entity.SupplierStatusPending:
			out.PendingSuppliers++
		}
		t := s.SupplierType
		if t == "" {
			t = "unknown"
		}
		if _, ok := typeCount[t]; !ok {
			typeOrder = append(typeOrder, t)
		}
		typeCount[t]++
		if s.Rating != nil {
			rated = append(rated, s)
		}
	}

	out.SuppliersByType = make([]dto.SupplierBucket, 0, len(typeOrder))
	for _, t := range typeOrder {
		out.SuppliersByType = append(out.SuppliersByType, dto.SupplierBucket{
			Type: t, Count: typeCount[t], Percentage: percent(typeCount[t], total),
		})
	}

	if len(rated) > 0 {
		sum := decimal.Zero
		for _, s := range rated {
			sum = sum.Add(*s.Rating)
		}
		out.AverageRating = sum.Div(decimal.NewFromInt(int64(len(rated)))).Round(1)
	}
	out.SuppliersByPerformance = performanceBuckets(rated, total)

	sort.SliceStable(rated, func(i, j int) bool { return rated[i].Rating.GreaterThan(*rated[j].Rating) })
	out.TopSuppliers = make([]dto.SupplierResponse, 0, 5)
	for i := 0; i < len(rated) && i < 5; i++ {
		out.TopSuppliers = append(out.TopSuppliers, *toSupplierResponse(rated[i]))
	}

	since := uc.now().AddDate(0, 0, -30)
	var recent []*entity.Supplier
	for _, s := range all {
		if !s.CreatedAt.Before(since) {
			recent = append(recent, s)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	out.RecentSuppliers = make([]dto.SupplierResponse, 0, 5)
	for i := 0; i < len(recent) && i < 5; i++ {
		out.RecentSuppliers = append(out.RecentSuppliers, *toSupplierResponse(recent[i]))
	}
	return out, nil
}

// performanceBuckets excellent >= 4.5, good >= 3.5, fair >= 2.5, poor < 2.5, not_rated.
func performanceBuckets(rated []*entity.Supplier, total int) []dto.SupplierBucket {
	var excellent, good, fair, poor int
	for _, s := range rated {
		r, _ := s.Rating.Float64()
		switch {
		case r >= 4.5:
			excellent++
		case r >= 3.5:
			good++
		case r >= 2.5:
			fair++
		default:
			poor++
		}
	}
	n := len(rated)
	return []dto.SupplierBucket{
		{Status: "excellent", Count: excellent, Percentage: percent(excellent, n)},
		{Status: "good", Count: good, Percentage: percent(good, n)},
		{Status: "fair", Count: fair, Percentage: percent(fair, n)},
		{Status: "poor", Count: poor, Percentage: percent(poor, n)},
		{Status: "not_rated", Count: total - n, Percentage: percent(total-n, total)},
	}
}

// percent porcentaje entero redondeado; 0 si total es 0.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(part * 100)).Div(decimal.NewFromInt(int64(total))).Round(0).IntPart())
}

func applySupplier(s *entity.Supplier, in dto.SupplierRequest) error {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Code != nil {
		s.Code = emptyToNil(in.Code)
	}
	setString(&s.Email, in.Email)
	setString(&s.Phone, in.Phone)
	setString(&s.Website, in.Website)
	setString(&s.AddressLine1, in.AddressLine1)
	setString(&s.AddressLine2, in.AddressLine2)
	setString(&s.City, in.City)
	setString(&s.State, in.State)
	setString(&s.PostalCode, in.PostalCode)
	setString(&s.Country, in.Country)
	setString(&s.TaxID, in.TaxID)
	setString(&s.BusinessRegistration, in.BusinessRegistration)
	setString(&s.PrimaryContactName, in.PrimaryContactName)
	setString(&s.PrimaryContactEmail, in.PrimaryContactEmail)
	setString(&s.PrimaryContactPhone, in.PrimaryContactPhone)
	setString(&s.PaymentTerms, in.PaymentTerms)
	setString(&s.Category, in.Category)
	setString(&s.Notes, in.Notes)
	setString(&s.InternalNotes, in.InternalNotes)
	if in.BusinessType != nil && *in.BusinessType != "" {
		s.BusinessType = *in.BusinessType
	}
	if in.Currency != nil && *in.Currency != "" {
		s.Currency = strings.ToUpper(*in.Currency)
	}
	if in.SupplierType != nil && *in.SupplierType != "" {
		s.SupplierType = *in.SupplierType
	}
	if in.Status != nil && *in.Status != "" {
		if !entity.ValidSupplierStatus(*in.Status) {
			return domain.Invalid("status inválido: " + *in.Status)
		}
		s.Status = *in.Status
	}
	if in.Rating != nil {
		if in.Rating.LessThan(decimal.Zero) || in.Rating.GreaterThan(decimal.NewFromInt(5)) {
			return domain.Invalid("rating debe estar entre 0 y 5")
		}
		s.Rating = in.Rating
	}
	if in.CreditLimit != nil {
		s.CreditLimit = in.CreditLimit
	}
	if in.LeadTimeDays != nil {
		s.LeadTimeDays = in.LeadTimeDays
	}
	if in.MinimumOrderAmount != nil {
		s.MinimumOrderAmount = in.MinimumOrderAmount
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	var parts []string
	for _, p := range []string{s.AddressLine1, s.AddressLine2, s.City, s.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return &dto.SupplierResponse{
		ID:                   s.ID,
		Name:                 s.Name,
		Code:                 s.Code,
		Email:                s.Email,
		Phone:                s.Phone,
		Website:              s.Website,
		AddressLine1:         s.AddressLine1,
		AddressLine2:         s.AddressLine2,
		City:                 s.City,
		State:                s.State,
		PostalCode:           s.PostalCode,
		Country:              s.Country,
		Address:              strings.Join(parts, ", "),
		TaxID:                s.TaxID,
		BusinessRegistration: s.BusinessRegistration,
		BusinessType:         s.BusinessType,
		PrimaryContactName:   s.PrimaryContactName,
		PrimaryContactEmail:  s.PrimaryContactEmail,
		PrimaryContactPhone:  s.PrimaryContactPhone,
		PaymentTerms:         s.PaymentTerms,
		CreditLimit:          s.CreditLimit,
		Currency:             s.Currency,
		Rating:               s.Rating,
		LeadTimeDays:         s.LeadTimeDays,
		MinimumOrderAmount:   s.MinimumOrderAmount,
		Status:               s.Status,
		SupplierType:         s.SupplierType,
		Category:             s.Category,
		Notes:                s.Notes,
		InternalNotes:        s.InternalNotes,
		CreatedBy:            s.CreatedBy,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
