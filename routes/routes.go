package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"HospitalCare/config"
	"HospitalCare/controllers"
	"HospitalCare/metrics"
	"HospitalCare/middleware"
	"HospitalCare/services"
)

// Services is everything the HTTP layer routes to.
type Services struct {
	Auth           *services.AuthService
	Appointments   *services.AppointmentService
	Doctors        *services.DoctorService
	Patients       *services.PatientService
	Departments    *services.DepartmentService
	Prescriptions  *services.PrescriptionService
	MedicalRecords *services.MedicalRecordService
	Invoices       *services.InvoiceService
	Messages       *services.MessageService
	Admin          *services.AdminService
}

type Options struct {
	Tokens   middleware.TokenParser
	Limiter  *middleware.IPRateLimiter
	Metrics  *metrics.Collector
	Database controllers.Pinger
	CORS     config.CORSConfig
	Log      *zap.Logger
}

/*
* Register the custom validators
* Install the request middleware on every route, recovery innermost so panics are logged
* Mount health and metrics at the root and the resources under /api
 */
func New(svc Services, opts Options) (*gin.Engine, error) {
	if err := controllers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.RequestIDs(),
		middleware.Logger(opts.Log),
		middleware.Metrics(opts.Metrics),
		middleware.Recovery(opts.Log),
		cors.New(corsConfig(opts.CORS)),
	)

	controllers.Health(r, opts.Database, opts.Log)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	authenticate := middleware.Authenticate(opts.Tokens, svc.Auth, opts.Log)
	limit := middleware.RateLimit(opts.Limiter)

	//public and private resources
	api := r.Group("/api")
	controllers.Auth(api, svc.Auth, authenticate, limit)
	controllers.Doctor(api, svc.Doctors, svc.Appointments, authenticate)
	controllers.Department(api, svc.Departments, authenticate)
	//private
	controllers.Appointment(api, svc.Appointments, authenticate)
	controllers.Patient(api, svc.Patients, authenticate)
	controllers.Prescription(api, svc.Prescriptions, authenticate)
	controllers.MedicalRecord(api, svc.MedicalRecords, authenticate)
	controllers.Invoice(api, svc.Invoices, authenticate)
	controllers.Message(api, svc.Messages, authenticate)
	controllers.Admin(api, svc.Admin, authenticate)
	return r, nil
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.AllowedOrigins
	c.AllowCredentials = true
	return c
}
