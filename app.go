package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"HospitalCare/cache"
	"HospitalCare/config"
	"HospitalCare/controllers"
	"HospitalCare/jobs"
	"HospitalCare/metrics"
	"HospitalCare/middleware"
	"HospitalCare/notify"
	"HospitalCare/routes"
	"HospitalCare/services"
	"HospitalCare/store"
	"HospitalCare/token"
)

// repositories is the storage the application is wired against: Mongo in
// production, in-memory fakes in tests.
type repositories struct {
	Users          services.UserRepository
	Doctors        services.DoctorRepository
	Patients       services.PatientRepository
	Appointments   services.AppointmentRepository
	Prescriptions  services.PrescriptionRepository
	MedicalRecords services.MedicalRecordRepository
	Invoices       services.InvoiceRepository
	Messages       services.MessageRepository
	Departments    services.DepartmentRepository
	Counters       services.CounterRepository
}

func mongoRepositories(s *store.Store) repositories {
	return repositories{
		Users:          s.Users,
		Doctors:        s.Doctors,
		Patients:       s.Patients,
		Appointments:   s.Appointments,
		Prescriptions:  s.Prescriptions,
		MedicalRecords: s.MedicalRecords,
		Invoices:       s.Invoices,
		Messages:       s.Messages,
		Departments:    s.Departments,
		Counters:       s.Counters,
	}
}

type application struct {
	router     *gin.Engine
	services   routes.Services
	scheduler  *jobs.Scheduler
	dispatcher *notify.Dispatcher
	metrics    *metrics.Collector
}

/*
* Build the metrics collector, notifier and services on top of the repositories
* Mount every route
* Create the scheduler without starting it
 */
func newApplication(cfg *config.Config, repos repositories, kv cache.Store, database controllers.Pinger, log *zap.Logger) (*application, error) {
	collector := metrics.NewCollector("hospital")
	dispatcher := notify.NewDispatcher(notify.NewLogNotifier(log), log, 10*time.Second)
	tokens := token.NewManager(cfg.JWT)
	guard := services.NewLoginGuard(kv, cfg.Auth, log)
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.AuthRequestsPerMinute, cfg.RateLimit.AuthBurst)

	svc := routes.Services{
		Auth:           services.NewAuthService(repos.Users, repos.Doctors, repos.Patients, tokens, guard, kv, dispatcher, collector, log),
		Appointments:   services.NewAppointmentService(repos.Appointments, repos.Doctors, repos.Patients, repos.Users, dispatcher, collector, log),
		Doctors:        services.NewDoctorService(repos.Doctors, repos.Users, kv, cfg.Redis.CacheTTL, log),
		Patients:       services.NewPatientService(repos.Patients, repos.Users, repos.Appointments, log),
		Departments:    services.NewDepartmentService(repos.Departments, repos.Doctors, kv, cfg.Redis.CacheTTL, log),
		Prescriptions:  services.NewPrescriptionService(repos.Prescriptions, repos.Patients, repos.Appointments, log),
		MedicalRecords: services.NewMedicalRecordService(repos.MedicalRecords, repos.Patients, repos.Appointments, log),
		Invoices:       services.NewInvoiceService(repos.Invoices, repos.Counters, repos.Patients, log),
		Messages:       services.NewMessageService(repos.Messages, repos.Users, log),
		Admin:          services.NewAdminService(repos.Users, repos.Appointments, repos.Invoices, kv, log),
	}

	router, err := routes.New(svc, routes.Options{
		Tokens:   tokens,
		Limiter:  limiter,
		Metrics:  collector,
		Database: database,
		CORS:     cfg.CORS,
		Log:      log,
	})
	if err != nil {
		return nil, err
	}

	scheduler := jobs.NewScheduler(svc.Appointments, svc.Invoices, limiter, collector, log)
	return &application{
		router:     router,
		services:   svc,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		metrics:    collector,
	}, nil
}

// shutdown lets queued notifications finish before the process exits.
func (a *application) shutdown(ctx context.Context) {
	a.scheduler.Stop(ctx)
	done := make(chan struct{})
	go func() {
		a.dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
