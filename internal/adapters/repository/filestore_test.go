package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/hearlab/audex/internal/adapters/repository"
	"github.com/hearlab/audex/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const storeCSV = `PatientID,Category,HL_Type_Right,HL_Type_Left,PTA_Right,PTA_Left,SRT_Right,SRT_Left,SDT_Right,SDT_Left,WRS_Right,WRS_Left
P001,Mild,Conductive,Conductive,10,12,15,18,8,9,96,94
P002,Severe,Mixed,Mixed,75,80,78,82,70,72,40,38
`

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audiogram_df.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileStore(t *testing.T) {
	Convey("Given a dataset file on disk", t, func() {
		ctx := context.Background()
		path := writeDataset(t, storeCSV)
		store := repository.NewFileStore(path, repository.WithRefreshInterval(0))

		Convey("When the store starts", func() {
			err := store.Start(ctx)
			defer store.Stop()

			Convey("Then the snapshot holds all rows", func() {
				So(err, ShouldBeNil)
				snap, err := store.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(len(snap.Records), ShouldEqual, 2)
				So(snap.Records[0].PatientID, ShouldEqual, "P001")
				So(store.Count(ctx), ShouldEqual, 2)
			})

			Convey("And reloading an unchanged file is a no-op", func() {
				So(err, ShouldBeNil)
				changed, err := store.Reload(ctx)
				So(err, ShouldBeNil)
				So(changed, ShouldBeFalse)
			})

			Convey("And reloading after the file changes installs a new snapshot", func() {
				So(err, ShouldBeNil)
				grown := storeCSV + "P003,Mild,Sensorineural,Sensorineural,20,22,25,28,18,19,90,88\n"
				So(os.WriteFile(path, []byte(grown), 0o600), ShouldBeNil)
				// mtime resolution can swallow rapid rewrites; size differs here.
				changed, err := store.Reload(ctx)
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a store that has not started", t, func() {
		store := repository.NewFileStore("nowhere.csv")

		Convey("Then Snapshot reports not-loaded", func() {
			_, err := store.Snapshot(context.Background())
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
		})

		Convey("And Reload after Stop reports closed", func() {
			store.Stop()
			_, err := store.Reload(context.Background())
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})
	})

	Convey("Given a dataset path that never appears", t, func() {
		ctx := context.Background()
		store := repository.NewFileStore(
			filepath.Join(t.TempDir(), "missing.csv"),
			repository.WithRetryWindow(50*time.Millisecond),
		)

		Convey("When the store starts", func() {
			err := store.Start(ctx)

			Convey("Then the retry window elapses and the load fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a dataset file with a broken schema", t, func() {
		ctx := context.Background()
		path := writeDataset(t, "PatientID,Category\nP001,Mild\n")
		store := repository.NewFileStore(path, repository.WithRetryWindow(5*time.Second))

		Convey("When the store starts", func() {
			start := time.Now()
			err := store.Start(ctx)

			Convey("Then it fails fast instead of retrying the whole window", func() {
				So(err, ShouldNotBeNil)
				So(time.Since(start), ShouldBeLessThan, 3*time.Second)
			})
		})
	})
}
