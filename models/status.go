package models

// ReservationStatus is a closed set. Every status change must go through
// CanTransitionTo; there is no transition out of a terminal status.
type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "Pending"
	ReservationConfirmed  ReservationStatus = "Confirmed"
	ReservationCheckedIn  ReservationStatus = "CheckedIn"
	ReservationCheckedOut ReservationStatus = "CheckedOut"
	ReservationCancelled  ReservationStatus = "Cancelled"
	ReservationNoShow     ReservationStatus = "NoShow"
)

// reservationTransitions is the single source of truth for the lifecycle.
// Pending <-> Confirmed flips via plan updates; both are check-in eligible.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:    {ReservationConfirmed, ReservationCheckedIn, ReservationCancelled, ReservationNoShow},
	ReservationConfirmed:  {ReservationPending, ReservationCheckedIn, ReservationCancelled, ReservationNoShow},
	ReservationCheckedIn:  {ReservationCheckedOut, ReservationCancelled, ReservationNoShow},
	ReservationCheckedOut: {},
	ReservationCancelled:  {},
	ReservationNoShow:     {},
}

func (s ReservationStatus) Valid() bool {
	_, ok := reservationTransitions[s]
	return ok
}

// Active statuses count toward room-conflict checks.
func (s ReservationStatus) Active() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn:
		return true
	}
	return false
}

func (s ReservationStatus) Terminal() bool {
	next, ok := reservationTransitions[s]
	return ok && len(next) == 0
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DisplayLabel is what the calendar and booking list show.
func (s ReservationStatus) DisplayLabel() string {
	switch s {
	case ReservationPending:
		return "Pending"
	case ReservationConfirmed:
		return "Confirmed"
	case ReservationCheckedIn:
		return "In House"
	case ReservationCheckedOut:
		return "Checked Out"
	case ReservationCancelled:
		return "Cancelled"
	case ReservationNoShow:
		return "No Show"
	}
	return string(s)
}

// ActiveReservationStatuses is handy for WHERE status IN (?) queries.
func ActiveReservationStatuses() []ReservationStatus {
	return []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCheckedIn}
}

// RoomStatus is the physical state of the room, owned jointly with
// housekeeping. It is independent of reservation status.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "Available"
	RoomOccupied    RoomStatus = "Occupied"
	RoomCleaning    RoomStatus = "Cleaning"
	RoomMaintenance RoomStatus = "Maintenance"
	RoomOutOfOrder  RoomStatus = "OutOfOrder"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance, RoomOutOfOrder:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "Cash"
	MethodCard     PaymentMethod = "Card"
	MethodTransfer PaymentMethod = "Transfer"
)

type PaymentType string

const (
	PaymentReservation PaymentType = "Reservation"
	PaymentSale        PaymentType = "Sale"
	PaymentDeposit     PaymentType = "Deposit"
	PaymentRefund      PaymentType = "Refund"
	PaymentOther       PaymentType = "Other"
)

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "Completed"
	PaymentCancelled PaymentStatus = "Cancelled"
	PaymentRefunded  PaymentStatus = "Refunded"
)

type ExpenseStatus string

const (
	ExpensePending   ExpenseStatus = "Pending"
	ExpenseApproved  ExpenseStatus = "Approved"
	ExpenseRejected  ExpenseStatus = "Rejected"
	ExpensePaid      ExpenseStatus = "Paid"
	ExpenseCancelled ExpenseStatus = "Cancelled"
)
