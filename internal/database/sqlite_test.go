package database

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediagrabber/internal/database/sqlc"
	"mediagrabber/internal/mg"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) (*SQLiteDatabase, *fixedClock) {
	t.Helper()

	conn, err := OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := conn.Exec(Schema); err != nil {
		conn.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	clock := &fixedClock{t: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	db := NewSQLiteDatabaseFromDB(conn, clock)
	t.Cleanup(func() {
		db.Close()
	})
	return db, clock
}

var captured = time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)

func newFile(name, hash string, size int64) *sqlc.File {
	return &sqlc.File{
		Type:           "JPG",
		ByteSize:       size,
		ContentHash:    sql.NullString{String: hash, Valid: hash != ""},
		FileMtime:      captured,
		CaptureTime:    captured,
		TargetPath:     "2020/2020-05/2020-05-01",
		TargetFilename: name,
	}
}

func mustInsert(t *testing.T, db *SQLiteDatabase, f *sqlc.File) *sqlc.File {
	t.Helper()
	if err := db.InsertFile(f); err != nil {
		t.Fatalf("InsertFile(%s) error = %v", f.TargetFilename, err)
	}
	return f
}

func TestSQLiteDatabase_InsertFile(t *testing.T) {
	t.Run("assigns id and added_at", func(t *testing.T) {
		db, clock := newTestDB(t)

		f := mustInsert(t, db, newFile("2020-05-01 10.00.00.jpg", "abc123", 2048))
		if f.ID == 0 {
			t.Error("ID was not assigned")
		}
		if !f.AddedAt.Equal(clock.t) {
			t.Errorf("AddedAt = %v, want %v", f.AddedAt, clock.t)
		}

		got, err := db.FindByHash("abc123")
		if err != nil {
			t.Fatalf("FindByHash() error = %v", err)
		}
		if got == nil || got.ID != f.ID {
			t.Fatalf("FindByHash() = %v, want record %d", got, f.ID)
		}
		if !got.CaptureTime.Equal(captured) {
			t.Errorf("CaptureTime = %v, want %v", got.CaptureTime, captured)
		}
		if got.Copied {
			t.Error("Copied = true for a fresh record")
		}
	})

	t.Run("rejects a taken target name", func(t *testing.T) {
		db, _ := newTestDB(t)
		mustInsert(t, db, newFile("a.jpg", "h1", 1))

		err := db.InsertFile(newFile("a.jpg", "h2", 2))
		if !errors.Is(err, mg.ErrUniquenessViolation) {
			t.Errorf("InsertFile() error = %v, want ErrUniquenessViolation", err)
		}
	})

	t.Run("rejects a taken content hash", func(t *testing.T) {
		db, _ := newTestDB(t)
		mustInsert(t, db, newFile("a.jpg", "h1", 1))

		err := db.InsertFile(newFile("b.jpg", "h1", 1))
		if !errors.Is(err, mg.ErrUniquenessViolation) {
			t.Errorf("InsertFile() error = %v, want ErrUniquenessViolation", err)
		}
	})
}

func TestSQLiteDatabase_InsertSource(t *testing.T) {
	t.Run("dangling file id", func(t *testing.T) {
		db, _ := newTestDB(t)

		err := db.InsertSource(&sqlc.Source{SourcePath: "/src", SourceFilename: "x.jpg", FileID: 42})
		if !errors.Is(err, mg.ErrDanglingReference) {
			t.Errorf("InsertSource() error = %v, want ErrDanglingReference", err)
		}
	})

	t.Run("duplicate location", func(t *testing.T) {
		db, _ := newTestDB(t)
		f := mustInsert(t, db, newFile("a.jpg", "h1", 1))

		src := &sqlc.Source{SourcePath: "/src", SourceFilename: "x.jpg", FileID: f.ID}
		if err := db.InsertSource(src); err != nil {
			t.Fatalf("InsertSource() error = %v", err)
		}
		err := db.InsertSource(&sqlc.Source{SourcePath: "/src", SourceFilename: "x.jpg", FileID: f.ID})
		if !errors.Is(err, mg.ErrUniquenessViolation) {
			t.Errorf("InsertSource() error = %v, want ErrUniquenessViolation", err)
		}
	})

	t.Run("found by location", func(t *testing.T) {
		db, _ := newTestDB(t)
		f := mustInsert(t, db, newFile("a.jpg", "h1", 1))
		if err := db.InsertSource(&sqlc.Source{SourcePath: "/src", SourceFilename: "x.jpg", FileID: f.ID}); err != nil {
			t.Fatalf("InsertSource() error = %v", err)
		}

		got, err := db.FindBySourceLocation("/src", "x.jpg")
		if err != nil {
			t.Fatalf("FindBySourceLocation() error = %v", err)
		}
		if got == nil || got.ID != f.ID {
			t.Errorf("FindBySourceLocation() = %v, want record %d", got, f.ID)
		}

		miss, err := db.FindBySourceLocation("/src", "y.jpg")
		if err != nil {
			t.Fatalf("FindBySourceLocation() error = %v", err)
		}
		if miss != nil {
			t.Errorf("FindBySourceLocation() = %v, want nil", miss)
		}
	})
}

func TestSQLiteDatabase_InsertFileWithSource(t *testing.T) {
	t.Run("stores both rows", func(t *testing.T) {
		db, _ := newTestDB(t)

		f := newFile("a.jpg", "h1", 1)
		src := &sqlc.Source{SourcePath: "/src", SourceFilename: "IMG_0001.JPG"}
		if err := db.InsertFileWithSource(f, src); err != nil {
			t.Fatalf("InsertFileWithSource() error = %v", err)
		}
		if src.FileID != f.ID {
			t.Errorf("source FileID = %d, want %d", src.FileID, f.ID)
		}
		assertCounts(t, db, 1, 1)
	})

	t.Run("rolls back the file when the source fails", func(t *testing.T) {
		db, _ := newTestDB(t)
		first := mustInsert(t, db, newFile("a.jpg", "h1", 1))
		if err := db.InsertSource(&sqlc.Source{SourcePath: "/src", SourceFilename: "x.jpg", FileID: first.ID}); err != nil {
			t.Fatalf("InsertSource() error = %v", err)
		}

		err := db.InsertFileWithSource(newFile("b.jpg", "h2", 2), &sqlc.Source{SourcePath: "/src", SourceFilename: "x.jpg"})
		if !errors.Is(err, mg.ErrUniquenessViolation) {
			t.Fatalf("InsertFileWithSource() error = %v, want ErrUniquenessViolation", err)
		}
		assertCounts(t, db, 1, 1)
	})
}

func TestSQLiteDatabase_FindByTargetName(t *testing.T) {
	db, _ := newTestDB(t)
	folder := "2020/2020-05/2020-05-01"
	base := "2020-05-01 10.00.00"

	mustInsert(t, db, newFile(base+"-1.jpg", "h1", 1))
	mustInsert(t, db, newFile(base+"-x.jpg", "h2", 2))
	mustInsert(t, db, newFile("2020-05-01 10.00.001.jpg", "h3", 3))

	tests := []struct {
		name string
		base string
		ext  string
		want string
	}{
		{"suffixed member matches", base, "jpg", base + "-1.jpg"},
		{"other extension misses", base, "png", ""},
		{"other second misses", "2020-05-01 10.00.01", "jpg", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FindByTargetName(folder, tt.base, tt.ext)
			if err != nil {
				t.Fatalf("FindByTargetName() error = %v", err)
			}
			switch {
			case tt.want == "" && got != nil:
				t.Errorf("FindByTargetName() = %s, want nil", got.TargetFilename)
			case tt.want != "" && (got == nil || got.TargetFilename != tt.want):
				t.Errorf("FindByTargetName() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestSQLiteDatabase_FindByCaptureTypeSize(t *testing.T) {
	db, _ := newTestDB(t)
	f := mustInsert(t, db, newFile("a.jpg", "h1", 2048))

	got, err := db.FindByCaptureTypeSize(captured.In(time.FixedZone("X", 3600)), "JPG", 2048)
	if err != nil {
		t.Fatalf("FindByCaptureTypeSize() error = %v", err)
	}
	if got == nil || got.ID != f.ID {
		t.Errorf("FindByCaptureTypeSize() = %v, want record %d", got, f.ID)
	}

	miss, err := db.FindByCaptureTypeSize(captured, "JPG", 4096)
	if err != nil {
		t.Fatalf("FindByCaptureTypeSize() error = %v", err)
	}
	if miss != nil {
		t.Errorf("FindByCaptureTypeSize() = %v, want nil", miss)
	}
}

func TestSQLiteDatabase_ListAllFiles_OldestFirst(t *testing.T) {
	db, clock := newTestDB(t)

	clock.t = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	late := mustInsert(t, db, newFile("late.jpg", "h1", 1))
	clock.t = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	early := mustInsert(t, db, newFile("early.jpg", "h2", 2))

	files, err := db.ListAllFiles()
	if err != nil {
		t.Fatalf("ListAllFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].ID != early.ID || files[1].ID != late.ID {
		t.Errorf("order = [%d %d], want [%d %d]", files[0].ID, files[1].ID, early.ID, late.ID)
	}
}

func TestSQLiteDatabase_Deletes(t *testing.T) {
	setup := func(t *testing.T) (*SQLiteDatabase, *sqlc.File) {
		t.Helper()
		db, _ := newTestDB(t)
		f := mustInsert(t, db, newFile("a.jpg", "h1", 1))
		for _, name := range []string{"x.jpg", "y.jpg"} {
			if err := db.InsertSource(&sqlc.Source{SourcePath: "/src", SourceFilename: name, FileID: f.ID}); err != nil {
				t.Fatalf("InsertSource() error = %v", err)
			}
		}
		return db, f
	}

	t.Run("delete file cascades", func(t *testing.T) {
		db, f := setup(t)
		if err := db.DeleteFile(f.ID); err != nil {
			t.Fatalf("DeleteFile() error = %v", err)
		}
		assertCounts(t, db, 0, 0)
	})

	t.Run("delete all sources keeps files", func(t *testing.T) {
		db, _ := setup(t)
		n, err := db.DeleteAllSources()
		if err != nil {
			t.Fatalf("DeleteAllSources() error = %v", err)
		}
		if n != 2 {
			t.Errorf("DeleteAllSources() = %d, want 2", n)
		}
		assertCounts(t, db, 1, 0)
	})

	t.Run("delete all files", func(t *testing.T) {
		db, _ := setup(t)
		n, err := db.DeleteAllFiles()
		if err != nil {
			t.Fatalf("DeleteAllFiles() error = %v", err)
		}
		if n != 1 {
			t.Errorf("DeleteAllFiles() = %d, want 1", n)
		}
		assertCounts(t, db, 0, 0)
	})
}

func TestSQLiteDatabase_MarkCopied(t *testing.T) {
	db, clock := newTestDB(t)
	f := mustInsert(t, db, newFile("a.jpg", "h1", 1))

	if err := db.MarkCopied(f.ID); err != nil {
		t.Fatalf("MarkCopied() error = %v", err)
	}
	got, err := db.FindByHash("h1")
	if err != nil {
		t.Fatalf("FindByHash() error = %v", err)
	}
	if !got.Copied {
		t.Error("Copied = false after MarkCopied")
	}
	if !got.CopiedAt.Valid || !got.CopiedAt.Time.Equal(clock.t) {
		t.Errorf("CopiedAt = %v, want %v", got.CopiedAt, clock.t)
	}
}

func TestSQLiteDatabase_Simulate(t *testing.T) {
	db, _ := newTestDB(t)
	mustInsert(t, db, newFile("a.jpg", "h1", 1))

	db.SetSimulate(true)
	f := newFile("b.jpg", "h2", 2)
	if err := db.InsertFile(f); err != nil {
		t.Fatalf("InsertFile() in simulate mode error = %v", err)
	}
	if f.ID == 0 {
		t.Error("simulated insert did not report an id")
	}
	if _, err := db.DeleteAllFiles(); err != nil {
		t.Fatalf("DeleteAllFiles() in simulate mode error = %v", err)
	}
	db.SetSimulate(false)

	assertCounts(t, db, 1, 0)
	if got, _ := db.FindByHash("h2"); got != nil {
		t.Error("simulated insert was persisted")
	}
}

func TestSQLiteDatabase_Runs(t *testing.T) {
	db, clock := newTestDB(t)

	first, err := db.CreateRun("run-1", "import", "sources=/src")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	clock.t = clock.t.Add(time.Minute)
	if err := db.FinishRun(first.ID, "success"); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}
	if _, err := db.CreateRun("run-2", "index", ""); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].RunID != "run-2" {
		t.Errorf("runs[0].RunID = %q, want newest first", runs[0].RunID)
	}
	done := runs[1]
	if done.Status != "success" || !done.FinishedAt.Valid {
		t.Errorf("finished run = %+v", done)
	}
	if d := done.FinishedAt.Time.Sub(done.StartedAt); d != time.Minute {
		t.Errorf("duration = %v, want 1m", d)
	}

	if _, err := db.CreateRun("run-1", "import", ""); !errors.Is(err, mg.ErrUniquenessViolation) {
		t.Errorf("CreateRun() duplicate id error = %v, want ErrUniquenessViolation", err)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("escapeLike() = %q", got)
	}
}

func assertCounts(t *testing.T, db *SQLiteDatabase, files, sources int64) {
	t.Helper()
	nf, err := db.CountFiles()
	if err != nil {
		t.Fatalf("CountFiles() error = %v", err)
	}
	ns, err := db.CountSources()
	if err != nil {
		t.Fatalf("CountSources() error = %v", err)
	}
	if nf != files || ns != sources {
		t.Errorf("counts = (%d files, %d sources), want (%d, %d)", nf, ns, files, sources)
	}
}

func TestOpenSQLiteDatabase(t *testing.T) {
	clock := &fixedClock{t: time.Now()}

	t.Run("missing index is not created", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFilename)
		db, err := OpenSQLiteDatabase(path, clock)
		if err == nil {
			db.Close()
			t.Fatal("OpenSQLiteDatabase() expected error for missing index")
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("index file was created: %v", err)
		}
	})

	t.Run("unmigrated index is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFilename)
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
		db, err := OpenSQLiteDatabase(path, clock)
		if err == nil {
			db.Close()
			t.Fatal("OpenSQLiteDatabase() expected error for unmigrated index")
		}
	})

	t.Run("opens a migrated index", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFilename)
		created, err := NewSQLiteDatabase(path, clock)
		if err != nil {
			t.Fatalf("NewSQLiteDatabase() error = %v", err)
		}
		f := newFile("2020-05-01 10.00.00.jpg", "abc", 10)
		if err := created.InsertFile(f); err != nil {
			t.Fatalf("InsertFile() error = %v", err)
		}
		created.Close()

		db, err := OpenSQLiteDatabase(path, clock)
		if err != nil {
			t.Fatalf("OpenSQLiteDatabase() error = %v", err)
		}
		defer db.Close()
		assertCounts(t, db, 1, 0)
	})
}
