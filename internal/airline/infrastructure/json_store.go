package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
)

const (
	journalFile = ".airline-journal.json"
	tmpSuffix   = ".tmp"
)

// JSONFileStore keeps users and flights in two JSON documents inside dir.
//
// Every document is written to a sibling temporary file, synced and renamed over the
// target. SaveBooking stages both documents and then writes a journal listing the pending
// renames; the journal is the commit point. A journal found on the next load or save is
// rolled forward, and temporary files without a journal are discarded.
type JSONFileStore struct {
	dir         string
	usersFile   string
	flightsFile string
	logger      pkgApp.AppLogger

	rename func(oldpath, newpath string) error
}

type pendingRename struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type journal struct {
	Renames []pendingRename `json:"renames"`
}

type document struct {
	name string
	data interface{}
}

func NewJSONFileStore(dir, usersFile, flightsFile string, logger pkgApp.AppLogger) *JSONFileStore {
	return &JSONFileStore{
		dir:         dir,
		usersFile:   usersFile,
		flightsFile: flightsFile,
		logger:      logger,
		rename:      os.Rename,
	}
}

func (s *JSONFileStore) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := s.recover(ctx); err != nil {
		return domain.Snapshot{}, err
	}

	var users []domain.User
	if err := s.readDocument(s.usersFile, &users); err != nil {
		return domain.Snapshot{}, err
	}
	var flights []domain.Flight
	if err := s.readDocument(s.flightsFile, &flights); err != nil {
		return domain.Snapshot{}, err
	}

	if users == nil {
		users = []domain.User{}
	}
	for i := range users {
		if users[i].Reservations == nil {
			users[i].Reservations = []domain.Reservation{}
		}
	}
	if flights == nil {
		flights = []domain.Flight{}
	}

	pkgApp.LogDebug(ctx, s.logger, "documents loaded", map[string]interface{}{
		"dir":     s.dir,
		"users":   len(users),
		"flights": len(flights),
	})
	return domain.Snapshot{Users: users, Flights: flights}, nil
}

func (s *JSONFileStore) SaveUsers(ctx context.Context, users []domain.User) error {
	return s.commit(ctx, document{name: s.usersFile, data: normalizeUsers(users)})
}

func (s *JSONFileStore) SaveFlights(ctx context.Context, flights []domain.Flight) error {
	return s.commit(ctx, document{name: s.flightsFile, data: normalizeFlights(flights)})
}

func (s *JSONFileStore) SaveBooking(ctx context.Context, users []domain.User, flights []domain.Flight) error {
	return s.commit(ctx,
		document{name: s.usersFile, data: normalizeUsers(users)},
		document{name: s.flightsFile, data: normalizeFlights(flights)},
	)
}

func (s *JSONFileStore) commit(ctx context.Context, docs ...document) error {
	if err := s.recover(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	staged := make([]pendingRename, 0, len(docs))
	discard := func() {
		for _, r := range staged {
			_ = os.Remove(s.path(r.From))
		}
	}

	for _, doc := range docs {
		data, err := json.Marshal(doc.data)
		if err != nil {
			discard()
			return fmt.Errorf("encode %s: %w", doc.name, err)
		}
		tmp := doc.name + tmpSuffix
		if err := writeFileSync(s.path(tmp), data); err != nil {
			discard()
			return fmt.Errorf("stage %s: %w", doc.name, err)
		}
		staged = append(staged, pendingRename{From: tmp, To: doc.name})
	}

	if len(staged) == 1 {
		if err := s.rename(s.path(staged[0].From), s.path(staged[0].To)); err != nil {
			discard()
			return fmt.Errorf("replace %s: %w", staged[0].To, err)
		}
		return nil
	}

	if err := s.writeJournal(journal{Renames: staged}); err != nil {
		discard()
		return fmt.Errorf("write journal: %w", err)
	}

	// committed: a failure from here on is finished by the next recover
	if err := s.applyJournal(staged); err != nil {
		pkgApp.LogError(ctx, s.logger, "journal apply deferred to recovery", err, map[string]interface{}{"dir": s.dir})
	}
	return nil
}

// recover rolls a committed journal forward and drops uncommitted temporary files.
func (s *JSONFileStore) recover(ctx context.Context) error {
	data, err := os.ReadFile(s.path(journalFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read journal: %w", err)
	default:
		var j journal
		if err := json.Unmarshal(data, &j); err != nil {
			return fmt.Errorf("decode journal: %w", err)
		}
		pkgApp.LogInfo(ctx, s.logger, "rolling journal forward", map[string]interface{}{
			"dir":     s.dir,
			"renames": len(j.Renames),
		})
		if err := s.applyJournal(j.Renames); err != nil {
			return err
		}
	}

	for _, name := range []string{s.usersFile, s.flightsFile, journalFile} {
		if err := os.Remove(s.path(name + tmpSuffix)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("discard %s: %w", name+tmpSuffix, err)
		}
	}
	return nil
}

func (s *JSONFileStore) applyJournal(renames []pendingRename) error {
	for _, r := range renames {
		err := s.rename(s.path(r.From), s.path(r.To))
		// a missing source means this rename already happened before a crash
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("replace %s: %w", r.To, err)
		}
	}
	if err := os.Remove(s.path(journalFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove journal: %w", err)
	}
	return nil
}

func (s *JSONFileStore) writeJournal(j journal) error {
	data, err := json.Marshal(j)
	if err != nil {
		return err
	}
	tmp := s.path(journalFile + tmpSuffix)
	if err := writeFileSync(tmp, data); err != nil {
		return err
	}
	if err := s.rename(tmp, s.path(journalFile)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (s *JSONFileStore) readDocument(name string, v interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *JSONFileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// normalizeUsers garante que listas vazias sejam gravadas como [] e não como null.
func normalizeUsers(users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	for i, user := range users {
		out[i] = user.Clone()
	}
	return out
}

func normalizeFlights(flights []domain.Flight) []domain.Flight {
	if flights == nil {
		return []domain.Flight{}
	}
	return flights
}
