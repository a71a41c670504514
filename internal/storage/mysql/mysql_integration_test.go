//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"travel_planner/internal/domain"
	mysqlrepo "travel_planner/internal/storage/mysql"
)

// startMySQL runs an isolated MySQL container and applies the embedded migrations.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("docker test skipped in -short mode")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker daemon unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=travel",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/travel?parseTime=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = mysqlrepo.Open(context.Background(), dsn)
		return e
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysqlrepo.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRepo_MySQL(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	owner, err := repo.CreateProfile(ctx, domain.Profile{
		FirstName: "Ana", LastName: "Smith", Email: "ana@example.com", PasswordHash: "h",
		BirthDate: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), Gender: "Female",
		Nationalities: []string{"New Zealand"}, TravellerTypes: []int64{1, 3},
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	admin, err := repo.CreateProfile(ctx, domain.Profile{
		FirstName: "Root", LastName: "Admin", Email: "admin@example.com", PasswordHash: "h",
		BirthDate: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateProfile admin: %v", err)
	}

	t.Run("profile round trip by email", func(t *testing.T) {
		p, err := repo.GetProfileByEmail(ctx, "ana@example.com")
		if err != nil {
			t.Fatalf("GetProfileByEmail: %v", err)
		}
		if p.ID != owner || p.FirstName != "Ana" || len(p.TravellerTypes) != 2 || p.Nationalities[0] != "New Zealand" {
			t.Fatalf("unexpected profile %+v", p)
		}
		if _, err := repo.CreateProfile(ctx, domain.Profile{Email: "ana@example.com", BirthDate: p.BirthDate}); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("duplicate email: want ErrConflict, got %v", err)
		}
	})

	t.Run("soft delete then undo restores", func(t *testing.T) {
		if err := repo.SetProfileDeleted(ctx, owner, true); err != nil {
			t.Fatalf("SetProfileDeleted: %v", err)
		}
		if _, err := repo.PushUndo(ctx, domain.UndoEntry{Kind: domain.KindProfile, EntityID: owner, ActorID: admin}); err != nil {
			t.Fatalf("PushUndo: %v", err)
		}
		if n, _ := repo.CountProfiles(ctx); n != 1 {
			t.Fatalf("deleted profile still listed, count=%d", n)
		}
		e, err := repo.PopUndo(ctx, admin)
		if err != nil || e.EntityID != owner {
			t.Fatalf("PopUndo = %+v, %v", e, err)
		}
		if err := repo.SetProfileDeleted(ctx, owner, false); err != nil {
			t.Fatalf("restore: %v", err)
		}
		if n, _ := repo.CountProfiles(ctx); n != 2 {
			t.Fatalf("restored profile missing, count=%d", n)
		}
	})

	t.Run("duplicate destination folds into public one", func(t *testing.T) {
		dup, err := repo.CreateDestination(ctx, domain.Destination{
			ProfileID: owner, Name: "Hagley Park", Type: "Park", Country: "New Zealand", Latitude: -43.5, Longitude: 172.6,
		})
		if err != nil {
			t.Fatalf("create dup: %v", err)
		}
		other, _ := repo.CreateDestination(ctx, domain.Destination{
			ProfileID: owner, Name: "Mount Cook", Type: "Mountain", Country: "New Zealand",
		})
		pub, err := repo.CreateDestination(ctx, domain.Destination{
			ProfileID: admin, Name: "Hagley Park", Type: "Park", Country: "New Zealand", Public: true,
		})
		if err != nil {
			t.Fatalf("create public: %v", err)
		}
		trip, err := repo.CreateTrip(ctx, domain.Trip{ProfileID: owner, Name: "South", Destinations: []domain.TripDestination{
			{DestinationID: dup}, {DestinationID: other},
		}})
		if err != nil {
			t.Fatalf("CreateTrip: %v", err)
		}

		if err := repo.DeleteDestination(ctx, dup); !errors.Is(err, domain.ErrInUse) {
			t.Fatalf("delete used destination: want ErrInUse, got %v", err)
		}
		same, _ := repo.FindSameDestinations(ctx, domain.DestinationKey{Name: "Hagley Park", Type: "Park", Country: "New Zealand"})
		if len(same) != 2 {
			t.Fatalf("FindSameDestinations = %d rows", len(same))
		}
		if err := repo.FollowDestination(ctx, pub, owner); err != nil {
			t.Fatalf("follow: %v", err)
		}
		if n, err := repo.RepointTripDestinations(ctx, dup, pub); err != nil || n != 1 {
			t.Fatalf("repoint = %d, %v", n, err)
		}
		if err := repo.DeleteDestination(ctx, dup); err != nil {
			t.Fatalf("delete dup: %v", err)
		}
		got, _ := repo.GetTrip(ctx, trip)
		if got.Destinations[0].DestinationID != pub || got.Destinations[1].DestinationID != other {
			t.Fatalf("trip stops %+v", got.Destinations)
		}
		followed, _ := repo.FollowedDestinations(ctx, owner)
		if len(followed) != 1 || followed[0].ID != pub {
			t.Fatalf("followed %+v", followed)
		}
	})

	t.Run("change request accept then reject", func(t *testing.T) {
		dest, _ := repo.CreateDestination(ctx, domain.Destination{
			ProfileID: owner, Name: "Queenstown", Type: "Town", Country: "New Zealand", TravellerTypes: []int64{2},
		})
		if _, err := repo.CreateChangeRequest(ctx, domain.DestinationRequest{DestinationID: dest, ProfileID: owner},
			[]domain.DestinationChange{
				{TravellerTypeID: 1, Action: domain.ChangeAdd},
				{TravellerTypeID: 2, Action: domain.ChangeRemove},
			}); err != nil {
			t.Fatalf("CreateChangeRequest: %v", err)
		}
		pending, err := repo.ListPendingChanges(ctx)
		if err != nil || len(pending) != 2 {
			t.Fatalf("pending = %+v, %v", pending, err)
		}
		if pending[0].Email != "ana@example.com" || pending[0].TravellerType.Name != "Groupies" {
			t.Fatalf("read model %+v", pending[0])
		}

		if err := repo.AddDestinationTravellerType(ctx, dest, pending[0].TravellerTypeID); err != nil {
			t.Fatalf("add tag: %v", err)
		}
		if err := repo.DeleteChange(ctx, pending[0].ID); err != nil {
			t.Fatalf("delete change: %v", err)
		}
		if err := repo.DeleteChange(ctx, pending[1].ID); err != nil {
			t.Fatalf("reject change: %v", err)
		}
		tags, _ := repo.DestinationTravellerTypes(ctx, dest)
		if len(tags) != 2 {
			t.Fatalf("tags %+v", tags)
		}
		if left, _ := repo.ListPendingChanges(ctx); len(left) != 0 {
			t.Fatalf("pending left %+v", left)
		}
	})
}
