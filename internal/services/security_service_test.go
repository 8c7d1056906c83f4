package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/models"
)

// fakeEnsurer satisfies ConnectionEnsurer with a fixed handle or error.
type fakeEnsurer struct {
	db  *gorm.DB
	err error
}

func (f *fakeEnsurer) Ensure(ctx context.Context) (*gorm.DB, error) {
	return f.db, f.err
}

func openTestDB(t *testing.T, tables ...interface{}) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := conn.AutoMigrate(tables...); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return conn
}

func TestListSecurityNamesFiltersAndSorts(t *testing.T) {
	conn := openTestDB(t, &models.Security{})

	for _, name := range []string{"TCS", "RELIANCE", "INFY", "RELIANCE", ""} {
		if err := conn.Create(&models.Security{SecurityName: name, Status: "Active"}).Error; err != nil {
			t.Fatalf("failed to insert security: %v", err)
		}
	}
	// A row whose name was never populated by the ingestion job.
	if err := conn.Exec("INSERT INTO securities (security_name, status) VALUES (NULL, 'Active')").Error; err != nil {
		t.Fatalf("failed to insert null-name row: %v", err)
	}

	service := NewSecurityService(&fakeEnsurer{db: conn}, nil, 5*time.Second)

	names, err := service.ListSecurityNames(context.Background())
	if err != nil {
		t.Fatalf("ListSecurityNames failed: %v", err)
	}

	want := []string{"INFY", "RELIANCE", "TCS"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}
}

func TestListSecurityNamesEmptyTable(t *testing.T) {
	conn := openTestDB(t, &models.Security{})
	service := NewSecurityService(&fakeEnsurer{db: conn}, nil, 5*time.Second)

	names, err := service.ListSecurityNames(context.Background())
	if err != nil {
		t.Fatalf("ListSecurityNames failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty listing, got %v", names)
	}
}

func TestListSecurityNamesConnectionFailure(t *testing.T) {
	connErr := &apperrors.ConnectionError{Resource: "database", Err: errors.New("refused")}
	service := NewSecurityService(&fakeEnsurer{err: connErr}, nil, 5*time.Second)

	_, err := service.ListSecurityNames(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	var got *apperrors.ConnectionError
	if !errors.As(err, &got) {
		t.Fatalf("expected ConnectionError, got %T", err)
	}
}
