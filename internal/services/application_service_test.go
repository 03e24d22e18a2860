package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobspher/jobspher/internal/models"
	"github.com/jobspher/jobspher/internal/utils"
)

func newApplicationService(f *fixture) ApplicationService {
	return NewApplicationService(f.repos, f.txm, f.notifier())
}

func TestApply(t *testing.T) {
	f := newFixture(t)
	svc := newApplicationService(f)
	ctx := context.Background()

	job := f.seedJob(t, models.JobActive)

	app, err := svc.Apply(ctx, f.seeker, job.ID, "resume/seeker/cv.pdf", "I am a great fit.")
	require.NoError(t, err)
	require.Equal(t, models.ApplicationSubmitted, app.Status)
	require.Equal(t, job.ID, app.JobID)
	require.Equal(t, f.seeker.ID, app.JobSeekerID)

	// The employer hears about it.
	notifs := f.db.notificationsFor(f.employer.ID)
	require.Len(t, notifs, 1)
	require.Equal(t, models.NotifyNewApplication, notifs[0].Type)
	require.Contains(t, notifs[0].Message, job.Title)
}

func TestApplyOnlyToActiveJobs(t *testing.T) {
	f := newFixture(t)
	svc := newApplicationService(f)
	ctx := context.Background()

	for _, status := range []models.JobStatus{
		models.JobPendingApproval,
		models.JobRejected,
		models.JobClosed,
	} {
		job := f.seedJob(t, status)
		_, err := svc.Apply(ctx, f.seeker, job.ID, "resume/cv.pdf", "")
		require.True(t, utils.IsCode(err, utils.CodeFailedPrecondition), "status %s", status)
	}

	_, err := svc.Apply(ctx, f.seeker, "no-such-job", "resume/cv.pdf", "")
	require.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestApplyResumeFallback(t *testing.T) {
	f := newFixture(t)
	svc := newApplicationService(f)
	ctx := context.Background()

	job := f.seedJob(t, models.JobActive)

	// No upload and no profile resume: refused.
	_, err := svc.Apply(ctx, f.seeker, job.ID, "", "")
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	// With a profile resume the application falls back to it.
	f.seeker.ResumePath = "resume/profile.pdf"
	app, err := svc.Apply(ctx, f.seeker, job.ID, "", "")
	require.NoError(t, err)
	require.Equal(t, "resume/profile.pdf", app.ResumePath)
}

func TestApplyDuplicate(t *testing.T) {
	f := newFixture(t)
	svc := newApplicationService(f)
	ctx := context.Background()

	job := f.seedJob(t, models.JobActive)

	_, err := svc.Apply(ctx, f.seeker, job.ID, "resume/cv.pdf", "")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, f.seeker, job.ID, "resume/cv.pdf", "")
	require.True(t, utils.IsCode(err, utils.CodeConflict))

	// A different seeker on the same job is fine.
	other := f.seedUser(t, models.RoleJobSeeker, "other-seeker@jobspher.test")
	_, err = svc.Apply(ctx, other, job.ID, "resume/cv2.pdf", "")
	require.NoError(t, err)

	// Same seeker on a different job is fine too.
	second := f.seedJob(t, models.JobActive)
	_, err = svc.Apply(ctx, f.seeker, second.ID, "resume/cv.pdf", "")
	require.NoError(t, err)
}

func TestApplyRequiresJobSeeker(t *testing.T) {
	f := newFixture(t)
	svc := newApplicationService(f)
	ctx := context.Background()

	job := f.seedJob(t, models.JobActive)

	_, err := svc.Apply(ctx, f.employer, job.ID, "resume/cv.pdf", "")
	require.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestUpdateApplicationStatus(t *testing.T) {
	f := newFixture(t)
	svc := newApplicationService(f)
	ctx := context.Background()

	job := f.seedJob(t, models.JobActive)
	app, err := svc.Apply(ctx, f.seeker, job.ID, "resume/cv.pdf", "")
	require.NoError(t, err)

	got, err := svc.UpdateStatus(ctx, app.ID, f.employer, models.ApplicationHired, "start Monday")
	require.NoError(t, err)
	require.Equal(t, models.ApplicationHired, got.Status)
	require.Equal(t, "start Monday", got.EmployerNotes)

	notifs := f.db.notificationsFor(f.seeker.ID)
	require.Len(t, notifs, 1)
	require.Equal(t, models.NotifyStatusUpdated, notifs[0].Type)
	require.Contains(t, notifs[0].Message, "has been hired")

	// Reassignment is free-form: un-hiring is allowed.
	got, err = svc.UpdateStatus(ctx, app.ID, f.employer, models.ApplicationShortlisted, "")
	require.NoError(t, err)
	require.Equal(t, models.ApplicationShortlisted, got.Status)
}

func TestUpdateApplicationStatusOwnership(t *testing.T) {
	f := newFixture(t)
	svc := newApplicationService(f)
	ctx := context.Background()

	job := f.seedJob(t, models.JobActive)
	app, err := svc.Apply(ctx, f.seeker, job.ID, "resume/cv.pdf", "")
	require.NoError(t, err)

	other := f.seedUser(t, models.RoleEmployer, "other@jobspher.test")
	_, err = svc.UpdateStatus(ctx, app.ID, other, models.ApplicationRejected, "")
	require.True(t, utils.IsCode(err, utils.CodeForbidden))

	_, err = svc.UpdateStatus(ctx, app.ID, f.employer, models.ApplicationStatus("WHATEVER"), "")
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.UpdateStatus(ctx, "no-such-application", f.employer, models.ApplicationHired, "")
	require.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestListApplicationsByJobOwnership(t *testing.T) {
	f := newFixture(t)
	svc := newApplicationService(f)
	ctx := context.Background()

	job := f.seedJob(t, models.JobActive)
	_, err := svc.Apply(ctx, f.seeker, job.ID, "resume/cv.pdf", "")
	require.NoError(t, err)

	out, err := svc.ListByJob(ctx, f.employer, job.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)

	other := f.seedUser(t, models.RoleEmployer, "other@jobspher.test")
	_, err = svc.ListByJob(ctx, other, job.ID)
	require.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestStatusPhrase(t *testing.T) {
	require.Equal(t, "Shortlisted", StatusPhrase(models.ApplicationShortlisted))
	require.Equal(t, "Rejected", StatusPhrase(models.ApplicationRejected))
	require.Equal(t, "Hired", StatusPhrase(models.ApplicationHired))
	require.Equal(t, "Updated", StatusPhrase(models.ApplicationSubmitted))
}
