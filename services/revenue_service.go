package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// RevenueService derives financial aggregates from the payment and expense
// read stores. Reads only.
type RevenueService struct {
	DB *gorm.DB
}

func NewRevenueService(db *gorm.DB) *RevenueService {
	return &RevenueService{DB: db}
}

// TypeSplit buckets completed payments: Reservation, Sale, and everything
// else (Deposit, Refund, Other) under Other.
type TypeSplit struct {
	Reservation    decimal.Decimal `json:"reservation"`
	Sale           decimal.Decimal `json:"sale"`
	Other          decimal.Decimal `json:"other"`
	ReservationPct float64         `json:"reservationPct"`
	SalePct        float64         `json:"salePct"`
	OtherPct       float64         `json:"otherPct"`
}

type MethodSplit struct {
	Cash        decimal.Decimal `json:"cash"`
	Card        decimal.Decimal `json:"card"`
	Transfer    decimal.Decimal `json:"transfer"`
	CashPct     float64         `json:"cashPct"`
	CardPct     float64         `json:"cardPct"`
	TransferPct float64         `json:"transferPct"`
}

type RevenueReport struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	Total        decimal.Decimal `json:"total"`
	ByType       TypeSplit       `json:"byType"`
	ByMethod     MethodSplit     `json:"byMethod"`
	Expenses     decimal.Decimal `json:"expenses"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	ProfitMargin float64         `json:"profitMargin"`
	RevPAR       decimal.Decimal `json:"revPAR"`
}

// share is part/total*100, degraded to 0 when total is zero.
func share(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	f, _ := part.Div(total).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}

// GrowthRate is (current-previous)/previous*100, defined as 0 when the
// previous period had no revenue.
func GrowthRate(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	f, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}

// computeRevenue is the pure core over already-loaded rows. Only Completed
// payments inside [start, windowEnd) count; only Paid expenses dated inside
// the window count against profit. totalRooms sizes RevPAR.
func computeRevenue(start, end time.Time, payments []models.Payment, expenses []models.Expense, totalRooms int) RevenueReport {
	start, end = utils.DateOnly(start), utils.DateOnly(end)
	windowEnd := utils.AddDays(end, 1)

	rep := RevenueReport{
		Start:     start.Format(utils.DateLayout),
		End:       end.Format(utils.DateLayout),
		Total:     decimal.Zero,
		Expenses:  decimal.Zero,
		NetProfit: decimal.Zero,
		RevPAR:    decimal.Zero,
	}
	rep.ByType.Reservation = decimal.Zero
	rep.ByType.Sale = decimal.Zero
	rep.ByType.Other = decimal.Zero
	rep.ByMethod.Cash = decimal.Zero
	rep.ByMethod.Card = decimal.Zero
	rep.ByMethod.Transfer = decimal.Zero

	for _, p := range payments {
		if p.Status != models.PaymentCompleted {
			continue
		}
		if p.PaidAt.Before(start) || !p.PaidAt.Before(windowEnd) {
			continue
		}
		rep.Total = rep.Total.Add(p.Amount)

		switch p.Type {
		case models.PaymentReservation:
			rep.ByType.Reservation = rep.ByType.Reservation.Add(p.Amount)
		case models.PaymentSale:
			rep.ByType.Sale = rep.ByType.Sale.Add(p.Amount)
		default:
			rep.ByType.Other = rep.ByType.Other.Add(p.Amount)
		}

		switch p.Method {
		case models.MethodCash:
			rep.ByMethod.Cash = rep.ByMethod.Cash.Add(p.Amount)
		case models.MethodCard:
			rep.ByMethod.Card = rep.ByMethod.Card.Add(p.Amount)
		case models.MethodTransfer:
			rep.ByMethod.Transfer = rep.ByMethod.Transfer.Add(p.Amount)
		}
	}

	rep.ByType.ReservationPct = share(rep.ByType.Reservation, rep.Total)
	rep.ByType.SalePct = share(rep.ByType.Sale, rep.Total)
	rep.ByType.OtherPct = share(rep.ByType.Other, rep.Total)
	rep.ByMethod.CashPct = share(rep.ByMethod.Cash, rep.Total)
	rep.ByMethod.CardPct = share(rep.ByMethod.Card, rep.Total)
	rep.ByMethod.TransferPct = share(rep.ByMethod.Transfer, rep.Total)

	for _, e := range expenses {
		if e.Status != models.ExpensePaid || e.PaymentDate == nil {
			continue
		}
		if e.PaymentDate.Before(start) || !e.PaymentDate.Before(windowEnd) {
			continue
		}
		rep.Expenses = rep.Expenses.Add(e.Amount)
	}

	rep.NetProfit = rep.Total.Sub(rep.Expenses)
	rep.ProfitMargin = share(rep.NetProfit, rep.Total)

	if totalRooms > 0 {
		roomNights := int64(totalRooms) * int64(utils.DaysInRange(start, end))
		rep.RevPAR = rep.Total.DivRound(decimal.NewFromInt(roomNights), 2)
	}

	return rep
}

func (s *RevenueService) load(ctx context.Context, start, windowEnd time.Time) ([]models.Payment, []models.Expense, int, error) {
	var payments []models.Payment
	var expenses []models.Expense
	var totalRooms int64
	err := withRetry(func() error {
		if err := s.DB.WithContext(ctx).
			Where("status = ? AND paid_at >= ? AND paid_at < ?", models.PaymentCompleted, start, windowEnd).
			Find(&payments).Error; err != nil {
			return classifyStoreErr(err, "payment_scan_failed", "could not scan payments")
		}
		if err := s.DB.WithContext(ctx).
			Where("status = ? AND payment_date >= ? AND payment_date < ?", models.ExpensePaid, start, windowEnd).
			Find(&expenses).Error; err != nil {
			return classifyStoreErr(err, "expense_scan_failed", "could not scan expenses")
		}
		if err := s.DB.WithContext(ctx).Model(&models.Room{}).Count(&totalRooms).Error; err != nil {
			return classifyStoreErr(err, "room_scan_failed", "could not count rooms")
		}
		return nil
	})
	if err != nil {
		return nil, nil, 0, err
	}
	return payments, expenses, int(totalRooms), nil
}

func (s *RevenueService) Daily(ctx context.Context, date time.Time) (RevenueReport, error) {
	return s.Period(ctx, date, date)
}

func (s *RevenueService) Period(ctx context.Context, start, end time.Time) (RevenueReport, error) {
	if start.After(end) {
		return RevenueReport{}, Validation("invalid_date_range", "start must not be after end")
	}
	start, end = utils.DateOnly(start), utils.DateOnly(end)
	payments, expenses, totalRooms, err := s.load(ctx, start, utils.AddDays(end, 1))
	if err != nil {
		return RevenueReport{}, err
	}
	return computeRevenue(start, end, payments, expenses, totalRooms), nil
}
