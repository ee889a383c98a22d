// Package policy centralizes who may do what to a reservation. The console
// used to compare role strings ad hoc wherever it needed a decision; here the
// rule set lives in one place, takes the acting identity and the record, and
// returns a forbidden failure with the precise denial reason. Authorization
// denials carry a different error code than validation failures so the
// caller can tell "not allowed" from "invalid request".
package policy

import (
	"condo/internal/domains/reservation/model"
	"condo/shared/constant"
	"condo/shared/failure"
)

// CanCreate allows administrators to book on behalf of anyone and residents
// to book only for themselves.
func CanCreate(role, actorID, residentID string) error {
	switch role {
	case constant.RoleAdmin:
		return nil
	case constant.RoleResident:
		if actorID != residentID {
			return failure.Forbidden("residents may only book for themselves") //nolint:wrapcheck
		}

		return nil
	default:
		return failure.Forbidden("unknown role") //nolint:wrapcheck
	}
}

// InitialStatus returns the state a freshly created reservation starts in:
// administrator bookings are auto-approved.
func InitialStatus(role string) string {
	if role == constant.RoleAdmin {
		return model.StatusConfirmed
	}

	return model.StatusPending
}

// CanReschedule allows the owner or an administrator to move a reservation.
// Whether the record's state permits it is the scheduler's concern.
func CanReschedule(role, actorID string, res model.Reservation) error {
	if role == constant.RoleAdmin {
		return nil
	}

	if role == constant.RoleResident && actorID == res.ResidentID {
		return nil
	}

	return failure.Forbidden("only the reservation owner or an administrator may reschedule it") //nolint:wrapcheck
}

// CanCancel allows administrators to cancel any non-terminal reservation and
// owners to cancel their own while still pending.
func CanCancel(role, actorID string, res model.Reservation) error {
	if role == constant.RoleAdmin {
		return nil
	}

	if role != constant.RoleResident || actorID != res.ResidentID {
		return failure.Forbidden("residents may only cancel their own reservations") //nolint:wrapcheck
	}

	if res.Status != model.StatusPending {
		return failure.Forbidden("residents may only cancel reservations that are still pending") //nolint:wrapcheck
	}

	return nil
}

// CanConfirm restricts approval to administrators.
func CanConfirm(role string) error {
	if role != constant.RoleAdmin {
		return failure.Forbidden("only administrators may confirm reservations") //nolint:wrapcheck
	}

	return nil
}

// CanComplete restricts the manual completion call to administrators; the
// periodic sweep bypasses policy entirely.
func CanComplete(role string) error {
	if role != constant.RoleAdmin {
		return failure.Forbidden("only administrators may complete reservations") //nolint:wrapcheck
	}

	return nil
}
