package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Devanshi-cloud/ias-management/handlers"
	"github.com/Devanshi-cloud/ias-management/logging"
	"github.com/Devanshi-cloud/ias-management/middleware"
	"github.com/Devanshi-cloud/ias-management/repositories"
	"github.com/Devanshi-cloud/ias-management/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Task Management Service...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: MONGO_URI and MONGO_DB_NAME must be set.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	database := client.Database(mongoDBName)
	tasksCollection := database.Collection("tasks")
	usersCollection := database.Collection("users")

	mongoBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "MongoCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	taskRepo := repositories.NewMongoTaskRepository(tasksCollection, mongoBreaker)
	userRepo := repositories.NewMongoUserRepository(usersCollection, mongoBreaker)

	allowMemberBasicEdits := false
	if raw := os.Getenv("MEMBER_BASIC_EDITS"); raw != "" {
		if allowMemberBasicEdits, err = strconv.ParseBool(raw); err != nil {
			logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: MEMBER_BASIC_EDITS must be a boolean, got %q", raw)
		}
	}

	taskService := services.NewTaskService(taskRepo, userRepo, allowMemberBasicEdits)
	userService := services.NewUserService(userRepo, taskRepo)
	dashboardService := services.NewDashboardService(taskRepo, userRepo)

	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	authHandler := handlers.NewAuthHandler(userService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(middleware.JWTAuthMiddleware)
	tasks.HandleFunc("/dashboard-data", dashboardHandler.GetDashboardData).Methods(http.MethodGet)
	tasks.HandleFunc("/user-dashboard-data", dashboardHandler.GetUserDashboardData).Methods(http.MethodGet)
	tasks.HandleFunc("/department-dashboard-data", dashboardHandler.GetDepartmentDashboardData).Methods(http.MethodGet)
	tasks.HandleFunc("", taskHandler.GetTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", taskHandler.CreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/{id}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	tasks.HandleFunc("/{id}/status", taskHandler.UpdateTaskStatus).Methods(http.MethodPut)
	tasks.HandleFunc("/{id}/todo", taskHandler.UpdateTaskChecklist).Methods(http.MethodPut)

	users := api.PathPrefix("/users").Subrouter()
	users.Use(middleware.JWTAuthMiddleware)
	users.HandleFunc("", userHandler.GetUsers).Methods(http.MethodGet)
	users.HandleFunc("/{id}", userHandler.GetUserByID).Methods(http.MethodGet)
	users.HandleFunc("/{id}", userHandler.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("/{id}", userHandler.DeleteUser).Methods(http.MethodDelete)

	corsRouter := middleware.EnableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
