package floorplan

import (
	"context"
	"fmt"

	"github.com/appetiteclub/floorplan/services/floorplan/internal/booking"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/member"
)

// MemberAPI is the part of the member client a booking needs.
type MemberAPI interface {
	CheckLineID(ctx context.Context, lineID string) (bool, error)
	CreateMember(ctx context.Context, m member.Member) error
	Register(ctx context.Context, reg member.Registration) error
}

// MemberSubmitter delivers bookings to the member API, creating the member
// profile first when the line id is not yet known.
type MemberSubmitter struct {
	api MemberAPI
}

func NewMemberSubmitter(api MemberAPI) *MemberSubmitter {
	return &MemberSubmitter{api: api}
}

func (s *MemberSubmitter) SubmitBooking(ctx context.Context, req booking.Request) error {
	if s == nil || s.api == nil {
		return fmt.Errorf("member api not configured")
	}

	lineID := req.Profile.UserID

	registered, err := s.api.CheckLineID(ctx, lineID)
	if err != nil {
		return err
	}

	if !registered {
		m := member.Member{
			LineID:       lineID,
			Name:         req.Name,
			ContactPhone: req.Phone,
			Province:     req.Province,
		}
		if err := s.api.CreateMember(ctx, m); err != nil {
			return err
		}
	}

	return s.api.Register(ctx, member.Registration{
		Name:         req.Name,
		ContactPhone: req.Phone,
		Province:     req.Province,
		TableID:      req.TableID.String(),
		TableLabel:   req.TableLabel,
		Time:         req.Time,
		Note:         req.Note,
		LineID:       lineID,
	})
}
