package infrastructure

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	"github.com/mateusmacedo/go-airline/pkg/application"
)

type userRecord struct {
	Username     string              `gorm:"primaryKey"`
	Password     string              `gorm:"not null"`
	Position     int                 `gorm:"index"`
	Reservations []reservationRecord `gorm:"foreignKey:Username;references:Username"`
}

func (userRecord) TableName() string { return "users" }

type reservationRecord struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"index;not null"`
	Position int
	FlightID string `gorm:"not null"`
	Seats    int    `gorm:"not null"`
}

func (reservationRecord) TableName() string { return "reservations" }

// flight_id is not unique: duplicates are accepted and lookups take the first by position.
type flightRecord struct {
	ID             uint   `gorm:"primaryKey"`
	Position       int    `gorm:"index"`
	FlightID       string `gorm:"index;not null"`
	Origin         string
	Destination    string
	SeatsAvailable int `gorm:"not null;check:seats_available >= 0"`
}

func (flightRecord) TableName() string { return "flights" }

type gormStore struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormStore(dsn string, logger application.AppLogger) (domain.Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	store, err := newGormStore(db, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newGormStore(db *gorm.DB, logger application.AppLogger) (*gormStore, error) {
	if err := db.AutoMigrate(&userRecord{}, &reservationRecord{}, &flightRecord{}); err != nil {
		return nil, err
	}
	return &gormStore{db: db, logger: logger}, nil
}

func (r *gormStore) Load(ctx context.Context) (domain.Snapshot, error) {
	var users []userRecord
	err := r.db.WithContext(ctx).
		Preload("Reservations", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("position").
		Find(&users).Error
	if err != nil {
		application.LogError(ctx, r.logger, "failed to load users", err, nil)
		return domain.Snapshot{}, err
	}

	var flights []flightRecord
	if err := r.db.WithContext(ctx).Order("position").Find(&flights).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to load flights", err, nil)
		return domain.Snapshot{}, err
	}

	return domain.Snapshot{Users: fromUserRecords(users), Flights: fromFlightRecords(flights)}, nil
}

func (r *gormStore) SaveUsers(ctx context.Context, users []domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceUsers(tx, users)
	})
}

func (r *gormStore) SaveFlights(ctx context.Context, flights []domain.Flight) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceFlights(tx, flights)
	})
}

func (r *gormStore) SaveBooking(ctx context.Context, users []domain.User, flights []domain.Flight) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceUsers(tx, users); err != nil {
			return err
		}
		return replaceFlights(tx, flights)
	})
	if err != nil {
		application.LogError(ctx, r.logger, "failed to save booking", err, nil)
		return err
	}

	application.LogDebug(ctx, r.logger, "booking saved", map[string]interface{}{
		"users":   len(users),
		"flights": len(flights),
	})
	return nil
}

func replaceUsers(tx *gorm.DB, users []domain.User) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&reservationRecord{}).Error; err != nil {
		return err
	}
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&userRecord{}).Error; err != nil {
		return err
	}

	records, reservations := toUserRecords(users)
	if len(records) > 0 {
		if err := tx.Omit(clause.Associations).Create(&records).Error; err != nil {
			return err
		}
	}
	if len(reservations) > 0 {
		if err := tx.Create(&reservations).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceFlights(tx *gorm.DB, flights []domain.Flight) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&flightRecord{}).Error; err != nil {
		return err
	}

	records := toFlightRecords(flights)
	if len(records) == 0 {
		return nil
	}
	return tx.Create(&records).Error
}

func toUserRecords(users []domain.User) ([]userRecord, []reservationRecord) {
	records := make([]userRecord, 0, len(users))
	var reservations []reservationRecord
	for i, user := range users {
		records = append(records, userRecord{Username: user.Username, Password: user.Password, Position: i})
		for j, reservation := range user.Reservations {
			reservations = append(reservations, reservationRecord{
				Username: user.Username,
				Position: j,
				FlightID: reservation.FlightID,
				Seats:    reservation.Seats,
			})
		}
	}
	return records, reservations
}

func fromUserRecords(records []userRecord) []domain.User {
	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		user := domain.NewUser(record.Username, record.Password)
		for _, reservation := range record.Reservations {
			user.Reservations = append(user.Reservations, domain.Reservation{
				FlightID: reservation.FlightID,
				Seats:    reservation.Seats,
			})
		}
		users = append(users, user)
	}
	return users
}

func toFlightRecords(flights []domain.Flight) []flightRecord {
	records := make([]flightRecord, 0, len(flights))
	for i, flight := range flights {
		records = append(records, flightRecord{
			Position:       i,
			FlightID:       flight.FlightID,
			Origin:         flight.Origin,
			Destination:    flight.Destination,
			SeatsAvailable: flight.SeatsAvailable,
		})
	}
	return records
}

func fromFlightRecords(records []flightRecord) []domain.Flight {
	flights := make([]domain.Flight, 0, len(records))
	for _, record := range records {
		flights = append(flights, domain.Flight{
			FlightID:       record.FlightID,
			Origin:         record.Origin,
			Destination:    record.Destination,
			SeatsAvailable: record.SeatsAvailable,
		})
	}
	return flights
}
