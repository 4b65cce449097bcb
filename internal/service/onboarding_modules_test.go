package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/noah-isme/onboard-go-api/internal/models"
)

func baselineProfile() models.StudentProfile {
	return models.StudentProfile{
		ID:        1,
		StudentID: 7,
		Fee:       models.FeeAccount{TotalAmount: 50000, Status: models.FeeUnpaid},
		Hostel:    models.HostelApplication{Status: models.HostelNotApplied},
		LMS:       models.LMSAccount{Status: models.LMSInactive},
	}
}

func TestComputeProgressFreshProfileIsZero(t *testing.T) {
	progress := ComputeProgress(baselineProfile())

	require.Zero(t, progress.Percentage)
	require.Len(t, progress.Modules, 4)
	for _, module := range progress.Modules {
		require.False(t, module.Complete, module.Module)
		require.NotEmpty(t, module.Summary)
	}
}

func TestComputeProgressStepsInQuarters(t *testing.T) {
	profile := baselineProfile()

	profile.Fee.PaidAmount = 50000
	require.Equal(t, 25, ComputeProgress(profile).Percentage)

	profile.Hostel.Status = models.HostelApproved
	require.Equal(t, 50, ComputeProgress(profile).Percentage)

	profile.LMS.Status = models.LMSActive
	require.Equal(t, 75, ComputeProgress(profile).Percentage)

	profile.Documents = []models.DocumentRecord{{
		Type:   models.DocAadhaarCard,
		Status: models.DocumentApproved,
	}}
	require.Equal(t, 100, ComputeProgress(profile).Percentage)
}

func TestComputeProgressDocumentsRequireAllApproved(t *testing.T) {
	profile := baselineProfile()
	profile.Documents = []models.DocumentRecord{
		{Type: models.DocAadhaarCard, Status: models.DocumentApproved},
		{Type: models.DocPANCard, Status: models.DocumentUploaded},
	}

	progress := ComputeProgress(profile)
	require.Zero(t, progress.Percentage)

	profile.Documents[1].Status = models.DocumentApproved
	require.Equal(t, 25, ComputeProgress(profile).Percentage)
}

func TestComputeProgressRejectedDocumentsExcluded(t *testing.T) {
	profile := baselineProfile()
	profile.Documents = []models.DocumentRecord{
		{Type: models.DocAadhaarCard, Status: models.DocumentApproved},
		{Type: models.DocPANCard, Status: models.DocumentRejected},
	}

	require.Equal(t, 25, ComputeProgress(profile).Percentage)
}

func TestComputeProgressPartialFeeIncomplete(t *testing.T) {
	profile := baselineProfile()
	profile.Fee.PaidAmount = 20000

	progress := ComputeProgress(profile)
	require.Zero(t, progress.Percentage)
	require.Contains(t, progress.Modules[1].Summary, "₹30000 remaining")
}

func TestComputeProgressDeterministic(t *testing.T) {
	profile := baselineProfile()
	profile.Fee.PaidAmount = 50000
	profile.LMS.Status = models.LMSActive
	profile.LMS.Subjects = datatypes.JSON(`["Mathematics","Physics"]`)

	first := ComputeProgress(profile)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, ComputeProgress(profile))
	}
}

func TestDecodeSubjects(t *testing.T) {
	require.Nil(t, DecodeSubjects(nil))
	require.Nil(t, DecodeSubjects([]byte("not json")))
	require.Equal(t, []string{"Maths"}, DecodeSubjects([]byte(`["Maths"]`)))
}
