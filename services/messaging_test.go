package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/role"
	"HospitalCare/util"
)

func TestDirectMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.doctor(t, "cox", "Internal")
	pat := f.patient(t, "elliot")
	nosy := f.patient(t, "turk")

	msg, err := f.messages.Send(ctx, pat, SendMessageInput{RecipientID: doc.UserID().Hex(), Subject: " Results ", Content: "Any news?"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageDirect, msg.MessageType)
	assert.Equal(t, models.MessageNormal, msg.Priority)
	assert.Equal(t, models.MessageSent, msg.Status)
	assert.Equal(t, "Results", msg.Subject)

	n, err := f.messages.UnreadCount(ctx, doc)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.messages.Get(ctx, nosy, msg.ID.Hex())
	assert.True(t, util.IsKind(err, util.KindForbidden))

	_, err = f.messages.MarkRead(ctx, pat, msg.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, util.ONLY_RECIPIENT_CAN_MODIFY, util.AsAppError(err).Message)

	read, err := f.messages.MarkRead(ctx, doc, msg.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, read.Status)
	require.NotNil(t, read.ReadAt)

	n, err = f.messages.UnreadCount(ctx, doc)
	require.NoError(t, err)
	assert.Zero(t, n)

	archived, err := f.messages.Archive(ctx, doc, msg.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.MessageArchived, archived.Status)
	assert.Equal(t, read.ReadAt, archived.ReadAt)

	sent, err := f.messages.Sent(ctx, pat, models.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, sent.Total)

	err = f.messages.Delete(ctx, doc, msg.ID.Hex())
	assert.True(t, util.IsKind(err, util.KindForbidden))
	require.NoError(t, f.messages.Delete(ctx, pat, msg.ID.Hex()))
	_, err = f.messages.Get(ctx, pat, msg.ID.Hex())
	assert.True(t, util.IsKind(err, util.KindNotFound))
}

func TestSendValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	nurse := f.staff(t, "laverne", role.Nurse)

	tests := []struct {
		name string
		in   SendMessageInput
		kind util.ErrorKind
		msg  string
	}{
		{"empty content", SendMessageInput{RecipientID: nurse.UserID().Hex(), Subject: "hi"}, util.KindValidation, util.MESSAGE_CONTENT_REQUIRED},
		{"unknown type", SendMessageInput{Subject: "a", Content: "b", MessageType: "Fax"}, util.KindValidation, util.INVALID_MESSAGE_TYPE},
		{"unknown priority", SendMessageInput{Subject: "a", Content: "b", Priority: "Meh"}, util.KindValidation, util.INVALID_MESSAGE_PRIORITY},
		{"broadcast by staff", SendMessageInput{Subject: "a", Content: "b", MessageType: "Announcement"}, util.KindForbidden, util.ONLY_ADMIN_BROADCASTS},
		{"missing recipient", SendMessageInput{Subject: "a", Content: "b"}, util.KindValidation, util.RECIPIENT_REQUIRED},
		{"unknown recipient", SendMessageInput{RecipientID: "507f1f77bcf86cd799439011", Subject: "a", Content: "b"}, util.KindNotFound, util.RECIPIENT_NOT_FOUND},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.messages.Send(ctx, nurse, tt.in)
			require.Error(t, err)
			assert.True(t, util.IsKind(err, tt.kind))
			assert.Equal(t, tt.msg, util.AsAppError(err).Message)
		})
	}
}

func TestAnnouncementsReachEveryInbox(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.staff(t, "kelso", role.Admin)
	pat := f.patient(t, "jd")
	desk := f.staff(t, "carla", role.Receptionist)

	ann, err := f.messages.Send(ctx, admin, SendMessageInput{Subject: "Closure", Content: "Wing C closed", MessageType: "Announcement", Priority: "High"})
	require.NoError(t, err)
	assert.True(t, ann.IsBroadcast())

	for name, caller := range map[string]*policy.Principal{"patient": pat, "receptionist": desk} {
		inbox, err := f.messages.Inbox(ctx, caller, models.Page{})
		require.NoError(t, err)
		require.Len(t, inbox.Items, 1, name)
		assert.Equal(t, ann.ID, inbox.Items[0].ID)

		_, err = f.messages.Get(ctx, caller, ann.ID.Hex())
		assert.NoError(t, err, name)
	}

	_, err = f.messages.MarkRead(ctx, pat, ann.ID.Hex())
	assert.True(t, util.IsKind(err, util.KindForbidden))
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.staff(t, "sisko", role.Admin)
	doc := f.doctor(t, "bashir", "Medical")
	f.patient(t, "jake")
	nurse := f.staff(t, "ezri", role.Nurse)

	_, err := f.admin.ListUsers(ctx, nurse, UserQuery{})
	assert.True(t, util.IsKind(err, util.KindForbidden))

	doctors, err := f.admin.ListUsers(ctx, admin, UserQuery{Role: "doctor"})
	require.NoError(t, err)
	require.Len(t, doctors.Items, 1)
	assert.Equal(t, doc.UserID(), doctors.Items[0].ID)

	_, err = f.admin.ListUsers(ctx, admin, UserQuery{Role: "captain"})
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = f.admin.SetUserStatus(ctx, admin, admin.UserID().Hex(), models.UserSuspended)
	require.Error(t, err)
	assert.Equal(t, util.CANNOT_SUSPEND_SELF, util.AsAppError(err).Message)

	suspended, err := f.admin.SetUserStatus(ctx, admin, nurse.UserID().Hex(), models.UserSuspended)
	require.NoError(t, err)
	assert.False(t, suspended.Active)
	assert.False(t, suspended.CanLogin())

	err = f.admin.DeleteUser(ctx, admin, admin.UserID().Hex())
	require.Error(t, err)
	assert.Equal(t, util.CANNOT_DELETE_SELF, util.AsAppError(err).Message)

	_, err = f.doctors.List(ctx, DoctorQuery{})
	require.NoError(t, err)
	require.NoError(t, f.admin.DeleteUser(ctx, admin, doc.UserID().Hex()))
	_, err = f.db.Doctors.FindByID(ctx, *doc.DoctorID)
	assert.True(t, util.IsKind(err, util.KindNotFound))
	remaining, err := f.doctors.List(ctx, DoctorQuery{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAdminStatsAndAnalytics(t *testing.T) {
	fixClock(t, time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC))
	f := newFixture(t)
	ctx := context.Background()
	admin := f.staff(t, "janeway", role.Admin)
	desk := f.staff(t, "neelix", role.Receptionist)
	cardio := f.doctor(t, "doc", "Cardiology")
	derm := f.doctor(t, "crusher", "Dermatology")
	pat := f.patient(t, "kes")

	f.book(t, pat, cardio, "2024-06-03", "09:00")
	f.book(t, pat, cardio, "2024-06-04", "09:00")
	f.book(t, pat, derm, "2024-06-10", "09:00")

	inv, err := f.invoices.Create(ctx, desk, CreateInvoiceInput{PatientID: pat.PatientID.Hex(), Items: consultation(90)})
	require.NoError(t, err)
	_, err = f.invoices.RecordPayment(ctx, desk, inv.ID.Hex(), PaymentInput{Amount: inv.TotalAmount})
	require.NoError(t, err)
	_, err = f.invoices.Create(ctx, desk, CreateInvoiceInput{PatientID: pat.PatientID.Hex(), Items: consultation(10)})
	require.NoError(t, err)

	_, err = f.admin.Stats(ctx, desk)
	assert.True(t, util.IsKind(err, util.KindForbidden))

	stats, err := f.admin.Stats(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.UsersByRole["doctor"])
	assert.EqualValues(t, 3, stats.AppointmentsByStatus[string(models.AppointmentScheduled)])
	assert.Equal(t, 100.0, stats.TotalRevenue)
	assert.EqualValues(t, 1, stats.OutstandingInvoices)
	assert.EqualValues(t, 1, stats.TodayAppointments)

	all, err := f.admin.AppointmentAnalytics(ctx, admin, AnalyticsQuery{})
	require.NoError(t, err)
	require.Len(t, all.ByDepartment, 2)
	assert.Equal(t, models.DepartmentCount{Department: "Cardiology", Count: 2}, all.ByDepartment[0])

	week, err := f.admin.AppointmentAnalytics(ctx, admin, AnalyticsQuery{From: "2024-06-03", To: "2024-06-09T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-09", week.To)
	require.Len(t, week.ByDepartment, 1)
	assert.EqualValues(t, 2, week.ByStatus[string(models.AppointmentScheduled)])

	_, err = f.admin.AppointmentAnalytics(ctx, admin, AnalyticsQuery{From: "June"})
	assert.True(t, util.IsKind(err, util.KindValidation))
}
