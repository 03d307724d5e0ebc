package dataset_test

import (
	"testing"

	dataset "github.com/hearlab/audex/internal/domain/dataset"
	model "github.com/hearlab/audex/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fourPatients() []model.AudiogramRecord {
	return []model.AudiogramRecord{
		{PatientID: "P001", Category: "Mild", PTARight: 10},
		{PatientID: "P002", Category: "Mild", PTARight: 20},
		{PatientID: "P003", Category: "Severe", PTARight: 30},
		{PatientID: "P004", Category: "Severe", PTARight: 40},
	}
}

func TestFilter(t *testing.T) {
	Convey("Given four patients across two categories", t, func() {
		records := fourPatients()

		Convey("When filtering to Mild", func() {
			got := dataset.Filter(records, []string{"Mild"})

			Convey("Then only the two Mild rows remain, in original order", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].PatientID, ShouldEqual, "P001")
				So(got[1].PatientID, ShouldEqual, "P002")
			})

			Convey("And re-filtering by the same selection is idempotent", func() {
				again := dataset.Filter(got, []string{"Mild"})
				So(again, ShouldResemble, got)
			})
		})

		Convey("When the selection is nil", func() {
			got := dataset.Filter(records, nil)

			Convey("Then all rows pass through", func() {
				So(len(got), ShouldEqual, 4)
			})
		})

		Convey("When the selection is empty but non-nil", func() {
			got := dataset.Filter(records, []string{})

			Convey("Then the result is empty", func() {
				So(len(got), ShouldEqual, 0)
			})
		})

		Convey("When the selection names a category absent from the data", func() {
			got := dataset.Filter(records, []string{"Mild", "Profound"})

			Convey("Then the absent value contributes nothing", func() {
				So(len(got), ShouldEqual, 2)
			})
		})

		Convey("When the selection differs only in case", func() {
			got := dataset.Filter(records, []string{"severe"})

			Convey("Then matching is case-insensitive", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].PatientID, ShouldEqual, "P003")
			})
		})
	})
}

func TestDistinct(t *testing.T) {
	Convey("Given records with repeated categories and etiologies", t, func() {
		records := []model.AudiogramRecord{
			{PatientID: "P001", Category: "Severe", HLTypeRight: "Mixed", HLTypeLeft: "Conductive"},
			{PatientID: "P002", Category: "Mild", HLTypeRight: "Conductive", HLTypeLeft: "Sensorineural"},
			{PatientID: "P001", Category: "Severe", HLTypeRight: "Mixed", HLTypeLeft: "Mixed"},
		}

		Convey("Then categories come back distinct in first-seen order", func() {
			So(dataset.DistinctCategories(records), ShouldResemble, []string{"Severe", "Mild"})
		})

		Convey("Then etiologies union both ears in first-seen order", func() {
			So(dataset.DistinctHLTypes(records), ShouldResemble,
				[]string{"Mixed", "Conductive", "Sensorineural"})
		})

		Convey("Then patient IDs are deduplicated", func() {
			So(dataset.PatientIDs(records), ShouldResemble, []string{"P001", "P002"})
		})
	})
}

func TestSelectPatient(t *testing.T) {
	Convey("Given records where an identifier repeats", t, func() {
		records := []model.AudiogramRecord{
			{PatientID: "P001", PTARight: 10},
			{PatientID: "P002", PTARight: 20},
			{PatientID: "P001", PTARight: 99},
		}

		Convey("When selecting the repeated identifier", func() {
			rec, ok := dataset.SelectPatient(records, "P001")

			Convey("Then the first encountered row wins", func() {
				So(ok, ShouldBeTrue)
				So(rec.PTARight, ShouldEqual, 10)
			})
		})

		Convey("When selecting an unknown identifier", func() {
			_, ok := dataset.SelectPatient(records, "P404")

			Convey("Then the lookup reports a miss", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
