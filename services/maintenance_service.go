package services

import (
	"fmt"
	"time"

	"havana-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MaintenanceService holds the repair jobs that reconcile state the write
// paths do not keep transactionally consistent: room/booking status drift,
// paid bookings with an unsettled ledger, and bookings created before
// per-room rates existed.
type MaintenanceService struct {
	DB *gorm.DB
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{DB: db}
}

// RoomCorrection records one status change made by FixRoomStatus.
type RoomCorrection struct {
	RoomNumber string `json:"roomNumber"`
	From       string `json:"from"`
	To         string `json:"to"`
	Reason     string `json:"reason"`
}

// RoomStatusReport summarizes a synchronizer run.
type RoomStatusReport struct {
	RoomsChecked    int              `json:"roomsChecked"`
	BookingsChecked int              `json:"bookingsChecked"`
	Corrections     []RoomCorrection `json:"corrections"`
}

// FixRoomStatus reconciles room statuses against the active bookings. Two
// passes: one over rooms deriving what each status should be, then a
// symmetric pass over bookings that catches rooms the first pass could not
// see. Idempotent and convergent; a second run right after makes no changes.
func (s *MaintenanceService) FixRoomStatus(now time.Time) (*RoomStatusReport, error) {
	var rooms []models.Room
	if err := s.DB.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	var bookings []models.Booking
	if err := models.ActiveBookingScope(s.DB).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	report := &RoomStatusReport{RoomsChecked: len(rooms), BookingsChecked: len(bookings)}

	occupied := func(roomNumber string) bool {
		for i := range bookings {
			if bookings[i].HasRoom(roomNumber) && bookings[i].OccupiesAt(now) {
				return true
			}
		}
		return false
	}

	// Pass 1: derive each room's status from the bookings that claim it.
	for i := range rooms {
		room := &rooms[i]
		if room.Status == models.RoomStatusMaintenance {
			continue
		}
		shouldBe := models.RoomStatusAvailable
		if occupied(room.RoomNumber) {
			shouldBe = models.RoomStatusBooked
		}
		if room.Status != shouldBe {
			report.Corrections = append(report.Corrections, RoomCorrection{
				RoomNumber: room.RoomNumber,
				From:       room.Status,
				To:         shouldBe,
				Reason:     "derived from active bookings",
			})
			room.Status = shouldBe
			if err := s.DB.Save(room).Error; err != nil {
				return nil, fmt.Errorf("save room %s: %w", room.RoomNumber, err)
			}
		}
	}

	// Pass 2: walk the bookings so rooms the first pass never loaded (added
	// after the snapshot, odd numbering) still converge.
	for i := range bookings {
		booking := &bookings[i]
		for _, roomNumber := range booking.RoomNumberList() {
			var room models.Room
			if err := s.DB.Where("room_number = ?", roomNumber).First(&room).Error; err != nil {
				log.Warn().Str("room", roomNumber).Str("grc", booking.GRCNo).Msg("booking references unknown room")
				continue
			}
			if room.Status == models.RoomStatusMaintenance {
				continue
			}

			if booking.OccupiesAt(now) {
				if room.Status != models.RoomStatusBooked {
					report.Corrections = append(report.Corrections, RoomCorrection{
						RoomNumber: roomNumber,
						From:       room.Status,
						To:         models.RoomStatusBooked,
						Reason:     "claimed by booking " + booking.GRCNo,
					})
					room.Status = models.RoomStatusBooked
					if err := s.DB.Save(&room).Error; err != nil {
						return nil, fmt.Errorf("save room %s: %w", roomNumber, err)
					}
				}
				continue
			}

			// Release only when no other active booking still claims the room.
			if room.Status == models.RoomStatusBooked && !occupied(roomNumber) {
				report.Corrections = append(report.Corrections, RoomCorrection{
					RoomNumber: roomNumber,
					From:       room.Status,
					To:         models.RoomStatusAvailable,
					Reason:     "no longer needed by booking " + booking.GRCNo,
				})
				room.Status = models.RoomStatusAvailable
				if err := s.DB.Save(&room).Error; err != nil {
					return nil, fmt.Errorf("save room %s: %w", roomNumber, err)
				}
			}
		}
	}

	log.Info().Int("corrections", len(report.Corrections)).Msg("room status fix completed")
	return report, nil
}

// PaymentFix records one booking repaired by FixPaymentData.
type PaymentFix struct {
	BookingID  uint    `json:"bookingId"`
	GRCNo      string  `json:"grcNo"`
	BalanceDue float64 `json:"balanceDue"`
}

// FixPaymentData settles the ledger of bookings marked Paid whose advance
// payments do not cover the net amount, by appending a synthetic balancing
// payment. The data-integrity drift is reported, never thrown.
func (s *MaintenanceService) FixPaymentData() ([]PaymentFix, error) {
	var bookings []models.Booking
	err := s.DB.Where("payment_status = ?", models.PaymentStatusPaid).Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("load paid bookings: %w", err)
	}

	var fixes []PaymentFix
	for i := range bookings {
		booking := &bookings[i]
		balanceDue := booking.NetAmount - booking.AdvanceTotal()
		if balanceDue <= 0 {
			continue
		}

		paymentDate := booking.UpdatedAt
		if paymentDate.IsZero() {
			paymentDate = time.Now()
		}
		booking.AdvancePayments = append(booking.AdvancePayments, models.AdvancePayment{
			Amount:        balanceDue,
			PaymentMethod: "Unknown",
			TransactionID: "FIX_" + uuid.NewString(),
			PaymentDate:   paymentDate,
			Status:        "Completed",
		})
		booking.TotalAdvanceAmount = booking.NetAmount

		if err := s.DB.Save(booking).Error; err != nil {
			return nil, fmt.Errorf("save booking %d: %w", booking.ID, err)
		}
		fixes = append(fixes, PaymentFix{
			BookingID:  booking.ID,
			GRCNo:      booking.GRCNo,
			BalanceDue: balanceDue,
		})
		log.Info().Uint("booking", booking.ID).Float64("balanceDue", balanceDue).Msg("settled paid booking ledger")
	}
	return fixes, nil
}

// MigrateBookingRoomRates backfills the per-room rate entries on bookings
// created before roomRates existed: one entry per room with the legacy rate
// split evenly, and an extra-bed start date defaulted to check-in for rooms
// already flagged.
func (s *MaintenanceService) MigrateBookingRoomRates() (int, error) {
	var bookings []models.Booking
	if err := s.DB.Find(&bookings).Error; err != nil {
		return 0, fmt.Errorf("load bookings: %w", err)
	}

	migrated := 0
	for i := range bookings {
		booking := &bookings[i]
		changed := false

		if len(booking.RoomRates) == 0 {
			roomNumbers := booking.RoomNumberList()
			if len(roomNumbers) == 0 {
				continue
			}
			days := booking.Days
			if days == 0 {
				days = 1
			}
			perRoom := booking.Rate / float64(len(roomNumbers)) / float64(days)
			for _, roomNumber := range roomNumbers {
				booking.RoomRates = append(booking.RoomRates, models.RoomRate{
					RoomNumber: roomNumber,
					CustomRate: perRoom,
				})
			}
			changed = true
		} else {
			for j := range booking.RoomRates {
				rr := &booking.RoomRates[j]
				if rr.ExtraBed && rr.ExtraBedStartDate == nil && booking.CheckInDate != nil {
					rr.ExtraBedStartDate = booking.CheckInDate
					changed = true
				}
			}
		}

		if changed {
			if err := s.DB.Save(booking).Error; err != nil {
				return migrated, fmt.Errorf("save booking %d: %w", booking.ID, err)
			}
			migrated++
			log.Info().Str("grc", booking.GRCNo).Msg("migrated booking room rates")
		}
	}
	return migrated, nil
}
