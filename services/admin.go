package services

import (
	"context"

	"go.uber.org/zap"

	"HospitalCare/cache"
	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/role"
	"HospitalCare/util"
)

type UserQuery struct {
	Role   string `form:"role"`
	Status string `form:"status"`
	models.Page
}

type UserStatusInput struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

type AnalyticsQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

type AdminService struct {
	users        UserRepository
	appointments AppointmentRepository
	invoices     InvoiceRepository
	cache        cache.Store
	log          *zap.Logger
}

func NewAdminService(users UserRepository, appointments AppointmentRepository, invoices InvoiceRepository, store cache.Store, log *zap.Logger) *AdminService {
	return &AdminService{users: users, appointments: appointments, invoices: invoices, cache: store, log: log.Named("admin")}
}

func (s *AdminService) ListUsers(ctx context.Context, p *policy.Principal, q UserQuery) (*Paged[models.User], error) {
	if !p.Can(policy.User, policy.View, policy.Owner{}) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	if q.Role != "" && !role.Role(q.Role).Valid() {
		return nil, util.Validation(util.INVALID_ROLE)
	}
	status := models.UserStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, util.Validation(util.INVALID_USER_STATUS)
	}
	list, total, err := s.users.List(ctx, models.UserFilter{Role: q.Role, Status: status, Page: q.Page})
	if err != nil {
		s.log.Error("listing users failed", zap.Error(err))
		return nil, err
	}
	return newPaged(list, total, q.Page), nil
}

func (s *AdminService) SetUserStatus(ctx context.Context, p *policy.Principal, id string, status models.UserStatus) (*models.User, error) {
	if !p.Can(policy.User, policy.Update, policy.Owner{}) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	if !status.Valid() {
		return nil, util.Validation(util.INVALID_USER_STATUS)
	}
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if oid == p.UserID() && status == models.UserSuspended {
		return nil, util.Validation(util.CANNOT_SUSPEND_SELF)
	}
	u, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	u.SetStatus(status)
	if err := s.users.Update(ctx, u); err != nil {
		s.log.Error("updating user status failed", zap.Stringer("user", u.ID), zap.Error(err))
		return nil, err
	}
	s.log.Info("user status changed", zap.Stringer("user", u.ID), zap.String("status", string(status)), zap.Stringer("by", p.UserID()))
	return u, nil
}

/*
* Admins cannot remove themselves
* The store removes the role profile together with the account
 */
func (s *AdminService) DeleteUser(ctx context.Context, p *policy.Principal, id string) error {
	if !p.Can(policy.User, policy.Delete, policy.Owner{}) {
		return util.Forbidden(util.ACCESS_DENIED)
	}
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	if oid == p.UserID() {
		return util.Validation(util.CANNOT_DELETE_SELF)
	}
	u, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if err := s.users.DeleteWithProfile(ctx, u); err != nil {
		s.log.Error("deleting user failed", zap.Stringer("user", u.ID), zap.Error(err))
		return err
	}
	if u.Role == role.Doctor {
		if err := s.cache.DeletePrefix(ctx, cache.DoctorListKey); err != nil {
			s.log.Warn("dropping doctor cache failed", zap.Error(err))
		}
	}
	s.log.Info("user deleted", zap.Stringer("user", u.ID), zap.String("role", u.Role.String()), zap.Stringer("by", p.UserID()))
	return nil
}

func (s *AdminService) Stats(ctx context.Context, p *policy.Principal) (*models.Stats, error) {
	if !p.Can(policy.Stats, policy.View, policy.Owner{}) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.appointments.CountByStatus(ctx, "", "")
	if err != nil {
		return nil, err
	}
	revenue, err := s.invoices.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.invoices.CountOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	todayCount, err := s.appointments.CountOn(ctx, today())
	if err != nil {
		return nil, err
	}
	return &models.Stats{
		UsersByRole:          byRole,
		AppointmentsByStatus: byStatus,
		TotalRevenue:         revenue,
		OutstandingInvoices:  outstanding,
		TodayAppointments:    todayCount,
	}, nil
}

func (s *AdminService) AppointmentAnalytics(ctx context.Context, p *policy.Principal, q AnalyticsQuery) (*models.AppointmentAnalytics, error) {
	if !p.Can(policy.Stats, policy.View, policy.Owner{}) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	out := &models.AppointmentAnalytics{}
	var err error
	if q.From != "" {
		if out.From, err = NormalizeDate(q.From); err != nil {
			return nil, err
		}
	}
	if q.To != "" {
		if out.To, err = NormalizeDate(q.To); err != nil {
			return nil, err
		}
	}

	if out.ByDepartment, err = s.appointments.CountByDepartment(ctx, out.From, out.To); err != nil {
		s.log.Error("counting by department failed", zap.Error(err))
		return nil, err
	}
	if out.ByStatus, err = s.appointments.CountByStatus(ctx, out.From, out.To); err != nil {
		s.log.Error("counting by status failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}
