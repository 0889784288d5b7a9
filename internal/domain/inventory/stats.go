package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Windows inicio del día, de la semana (domingo) y del mes para now.
type Windows struct {
	Today      time.Time
	WeekStart  time.Time
	MonthStart time.Time
}

// WindowsAt calcula las ventanas en la zona horaria de now.
func WindowsAt(now time.Time) Windows {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return Windows{
		Today:      today,
		WeekStart:  today.AddDate(0, 0, -int(today.Weekday())),
		MonthStart: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
	}
}

// AdjustmentSummary resumen global de ajustes.
type AdjustmentSummary struct {
	Total           int
	Pending         int
	Approved        int
	Rejected        int
	Increases       int
	Decreases       int
	TotalCostImpact decimal.Decimal
	Today           int
	ThisWeek        int
	ThisMonth       int
}

// SummarizeAdjustments agrega contadores por estado, signo y ventana de tiempo.
func SummarizeAdjustments(list []*entity.StockAdjustment, now time.Time) AdjustmentSummary {
	w := WindowsAt(now)
	s := AdjustmentSummary{Total: len(list), TotalCostImpact: decimal.Zero}
	for _, a := range list {
		switch a.Status {
		case entity.AdjustmentPending:
			s.Pending++
		case entity.AdjustmentApproved:
			s.Approved++
		case entity.AdjustmentRejected:
			s.Rejected++
		}
		if a.QuantityChange > 0 {
			s.Increases++
		} else if a.QuantityChange < 0 {
			s.Decreases++
		}
		s.TotalCostImpact = s.TotalCostImpact.Add(a.CostImpact)
		if !a.CreatedAt.Before(w.Today) {
			s.Today++
		}
		if !a.CreatedAt.Before(w.WeekStart) {
			s.ThisWeek++
		}
		if !a.CreatedAt.Before(w.MonthStart) {
			s.ThisMonth++
		}
	}
	return s
}

// ProductAdjustmentStats agregados de ajustes por producto.
type ProductAdjustmentStats struct {
	ProductID         string
	ProductName       string
	ProductSKU        string
	TotalAdjustments  int
	TotalIncrease     int
	TotalDecrease     int
	NetChange         int
	LastAdjustment    time.Time
	AvgAdjustmentSize decimal.Decimal // |net| / count
}

// AdjustmentsByProduct agrupa por producto, ordenado por cantidad de ajustes descendente.
func AdjustmentsByProduct(list []*entity.StockAdjustment) []ProductAdjustmentStats {
	idx := map[string]*ProductAdjustmentStats{}
	var order []string
	for _, a := range list {
		st, ok := idx[a.ProductID]
		if !ok {
			st = &ProductAdjustmentStats{ProductID: a.ProductID, ProductName: a.ProductName, ProductSKU: a.ProductSKU}
			idx[a.ProductID] = st
			order = append(order, a.ProductID)
		}
		st.TotalAdjustments++
		if a.QuantityChange > 0 {
			st.TotalIncrease += a.QuantityChange
		} else {
			st.TotalDecrease += -a.QuantityChange
		}
		st.NetChange += a.QuantityChange
		if a.CreatedAt.After(st.LastAdjustment) {
			st.LastAdjustment = a.CreatedAt
		}
	}
	out := make([]ProductAdjustmentStats, 0, len(order))
	for _, id := range order {
		st := idx[id]
		net := st.NetChange
		if net < 0 {
			net = -net
		}
		st.AvgAdjustmentSize = decimal.NewFromInt(int64(net)).
			Div(decimal.NewFromInt(int64(st.TotalAdjustments))).Round(2)
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalAdjustments > out[j].TotalAdjustments })
	return out
}

// ReasonStats agregados de ajustes por motivo.
type ReasonStats struct {
	Reason        string
	Count         int
	TotalQuantity int // suma de |cambio|
	Percentage    decimal.Decimal
}

// AdjustmentsByReason agrupa por motivo, ordenado por cantidad descendente.
func AdjustmentsByReason(list []*entity.StockAdjustment) []ReasonStats {
	idx := map[string]*ReasonStats{}
	var order []string
	for _, a := range list {
		st, ok := idx[a.Reason]
		if !ok {
			st = &ReasonStats{Reason: a.Reason}
			idx[a.Reason] = st
			order = append(order, a.Reason)
		}
		st.Count++
		ch := a.QuantityChange
		if ch < 0 {
			ch = -ch
		}
		st.TotalQuantity += ch
	}
	total := decimal.NewFromInt(int64(len(list)))
	out := make([]ReasonStats, 0, len(order))
	for _, r := range order {
		st := idx[r]
		st.Percentage = decimal.Zero
		if len(list) > 0 {
			st.Percentage = decimal.NewFromInt(int64(st.Count * 100)).Div(total).Round(2)
		}
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// MovementSummary resumen de movimientos de una ventana.
type MovementSummary struct {
	TotalMovements int
	TotalStockIn   int
	TotalStockOut  int
	TotalValue     decimal.Decimal // sum(quantity * unit_cost)
	Today          int
	ThisWeek       int
	ThisMonth      int
}

// SummarizeMovements totaliza entradas (tipo in) y salidas (tipo out).
func SummarizeMovements(list []*entity.StockMovement, now time.Time) MovementSummary {
	w := WindowsAt(now)
	s := MovementSummary{TotalMovements: len(list), TotalValue: decimal.Zero}
	for _, m := range list {
		switch m.MovementType {
		case entity.MovementIn:
			s.TotalStockIn += m.Quantity
		case entity.MovementOut:
			s.TotalStockOut += m.Quantity
		}
		s.TotalValue = s.TotalValue.Add(decimal.NewFromInt(int64(m.Quantity)).Mul(m.UnitCost))
		if !m.CreatedAt.Before(w.Today) {
			s.Today++
		}
		if !m.CreatedAt.Before(w.WeekStart) {
			s.ThisWeek++
		}
		if !m.CreatedAt.Before(w.MonthStart) {
			s.ThisMonth++
		}
	}
	return s
}
