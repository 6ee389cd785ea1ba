package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/config"
	appHTTP "github.com/peopleops-hr/bioattend-backend-go/internal/handler/http"
	"github.com/peopleops-hr/bioattend-backend-go/internal/pkg/database"
	"github.com/peopleops-hr/bioattend-backend-go/internal/pkg/jwt"
	"github.com/peopleops-hr/bioattend-backend-go/internal/repository/postgresql"
	attendanceService "github.com/peopleops-hr/bioattend-backend-go/internal/service/attendance"
	notificationService "github.com/peopleops-hr/bioattend-backend-go/internal/service/notification"
	pointService "github.com/peopleops-hr/bioattend-backend-go/internal/service/point"
	reconcileService "github.com/peopleops-hr/bioattend-backend-go/internal/service/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	location, err := time.LoadLocation(cfg.Reconcile.Timezone)
	if err != nil {
		log.Fatal("Invalid RECONCILE_TIMEZONE: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "bioattend"),
	)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	uploadRepo := postgresql.NewUploadRepository(db)
	bioRecordRepo := postgresql.NewBiometricRecordRepository(db)
	pointRepo := postgresql.NewPointRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	sink := notificationService.NewLogSink(logger)
	reconcileSvc := reconcileService.NewReconcileService(
		db,
		uploadRepo,
		bioRecordRepo,
		employeeRepo,
		scheduleRepo,
		leaveRepo,
		attendanceRepo,
		sink,
		logger,
	)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, logger)
	pointSvc := pointService.NewPointService(pointRepo, attendanceRepo, logger)

	uploadHandler := appHTTP.NewUploadHandler(uploadRepo, bioRecordRepo, reconcileSvc, location)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	pointHandler := appHTTP.NewPointHandler(pointSvc)

	router := appHTTP.NewRouter(
		JWTService,
		uploadHandler,
		attendanceHandler,
		pointHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
