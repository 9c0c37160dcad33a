package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/roboclub/club-api/api"
	"github.com/roboclub/club-api/api/scheduler"
	"github.com/roboclub/club-api/config"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	DB       databases.CollectionHelper
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	adm := Admin{DB: databases.NewAdminDatabase(a.dbHelper)}
	t := Team{
		DB:  databases.NewTeamDatabase(a.dbHelper),
		UDB: databases.NewUserDatabase(a.dbHelper),
		EDB: databases.NewEventDatabase(a.dbHelper),
		RDB: databases.NewRegistrationDatabase(a.dbHelper),
		NDB: databases.NewNotificationDatabase(a.dbHelper),
	}
	inv := Inventory{
		DB:  databases.NewComponentDatabase(a.dbHelper),
		DLD: databases.NewDamagedLogDatabase(a.dbHelper),
	}
	iss := Issuance{
		DB:  databases.NewIssuanceDatabase(a.dbHelper),
		CDB: databases.NewComponentDatabase(a.dbHelper),
		UDB: databases.NewUserDatabase(a.dbHelper),
		NDB: databases.NewNotificationDatabase(a.dbHelper),
	}
	n := Notification{DB: databases.NewNotificationDatabase(a.dbHelper)}
	ev := Event{
		DB:  databases.NewEventDatabase(a.dbHelper),
		RDB: databases.NewRegistrationDatabase(a.dbHelper),
		UDB: databases.NewUserDatabase(a.dbHelper),
	}
	rec := Recruitment{DB: databases.NewApplicationDatabase(a.dbHelper)}
	lead := Leadership{DB: databases.NewLeadershipDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// live notification feed
	r.HandleFunc("/ws/notifications", HandleNotificationsWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/admin/login", http.HandlerFunc(adm.AdminLoginHandler)).Methods("POST")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")
	apiCreate.Handle("/users/roll/{roll_number}", api.Middleware(http.HandlerFunc(u.UserByRollNumberHandler))).Methods("GET")

	apiCreate.Handle("/teams", api.Middleware(http.HandlerFunc(t.CreateTeamHandler))).Methods("POST")
	apiCreate.Handle("/teams/search", api.Middleware(http.HandlerFunc(t.SearchTeamByMemberHandler))).Methods("GET")
	apiCreate.Handle("/teams/pending", api.Middleware(http.HandlerFunc(t.PendingTeamHandler))).Methods("GET")
	apiCreate.Handle("/teams/event/{event_id}", api.Middleware(http.HandlerFunc(t.TeamsByEventHandler))).Methods("GET")
	apiCreate.Handle("/team/{team_id}", api.Middleware(http.HandlerFunc(t.TeamByIDHandler))).Methods("GET")
	apiCreate.Handle("/team/{team_id}", api.Middleware(http.HandlerFunc(t.DeleteTeamHandler))).Methods("DELETE")
	apiCreate.Handle("/team/{team_id}/join-requests", api.Middleware(http.HandlerFunc(t.RequestJoinHandler))).Methods("POST")
	apiCreate.Handle("/team/{team_id}/join-requests/{user_id}/approve", api.Middleware(http.HandlerFunc(t.ApproveRequestHandler))).Methods("PUT")
	apiCreate.Handle("/team/{team_id}/join-requests/{user_id}", api.Middleware(http.HandlerFunc(t.RejectRequestHandler))).Methods("DELETE")
	apiCreate.Handle("/team/{team_id}/members", api.Middleware(http.HandlerFunc(t.AddMemberDirectHandler))).Methods("POST")

	apiCreate.Handle("/inventory", api.Middleware(http.HandlerFunc(inv.ComponentsHandler))).Methods("GET")
	apiCreate.Handle("/inventory", adm.RequireAdmin(http.HandlerFunc(inv.CreateComponentHandler))).Methods("POST")
	apiCreate.Handle("/inventory/import", adm.RequireAdmin(http.HandlerFunc(inv.ImportComponentsHandler))).Methods("POST")
	apiCreate.Handle("/inventory/export", adm.RequireAdmin(http.HandlerFunc(inv.ExportComponentsHandler))).Methods("GET")
	apiCreate.Handle("/inventory/damaged", adm.RequireAdmin(http.HandlerFunc(inv.DamagedLogsHandler))).Methods("GET")
	apiCreate.Handle("/inventory/{component_id}", api.Middleware(http.HandlerFunc(inv.ComponentByIDHandler))).Methods("GET")
	apiCreate.Handle("/inventory/{component_id}", adm.RequireAdmin(http.HandlerFunc(inv.UpdateComponentHandler))).Methods("PUT")
	apiCreate.Handle("/inventory/{component_id}", adm.RequireAdmin(http.HandlerFunc(inv.DeleteComponentHandler))).Methods("DELETE")
	apiCreate.Handle("/inventory/{component_id}/damage", adm.RequireAdmin(http.HandlerFunc(inv.ReportDamageHandler))).Methods("POST")

	apiCreate.Handle("/issuances", api.Middleware(http.HandlerFunc(iss.RequestComponentHandler))).Methods("POST")
	apiCreate.Handle("/issuances", adm.RequireAdmin(http.HandlerFunc(iss.IssuancesHandler))).Methods("GET")
	apiCreate.Handle("/issuances/user/{user_id}", api.Middleware(http.HandlerFunc(iss.IssuancesByUserIDHandler))).Methods("GET")
	apiCreate.Handle("/issuance/{issuance_id}/status", adm.RequireAdmin(http.HandlerFunc(iss.UpdateIssuanceStatusHandler))).Methods("PUT")

	apiCreate.Handle("/users/{user_id}/notifications", api.Middleware(http.HandlerFunc(n.GetUserNotificationsHandler))).Methods("GET")
	apiCreate.Handle("/users/{user_id}/notifications/{notification_id}/read", api.Middleware(http.HandlerFunc(n.MarkNotificationAsReadHandler))).Methods("PUT")
	apiCreate.Handle("/users/{user_id}/notifications/{notification_id}", api.Middleware(http.HandlerFunc(n.DeleteNotificationHandler))).Methods("DELETE")

	apiCreate.Handle("/events", api.Middleware(http.HandlerFunc(ev.EventsHandler))).Methods("GET")
	apiCreate.Handle("/events", adm.RequireAdmin(http.HandlerFunc(ev.CreateEventHandler))).Methods("POST")
	apiCreate.Handle("/event/{event_id}", api.Middleware(http.HandlerFunc(ev.EventByIDHandler))).Methods("GET")
	apiCreate.Handle("/event/{event_id}/registrations", api.Middleware(http.HandlerFunc(ev.RegisterHandler))).Methods("POST")
	apiCreate.Handle("/event/{event_id}/registrations", api.Middleware(http.HandlerFunc(ev.RegistrationsByEventHandler))).Methods("GET")

	apiCreate.Handle("/recruitment/applications", http.HandlerFunc(rec.SubmitApplicationHandler)).Methods("POST")
	apiCreate.Handle("/recruitment/applications", adm.RequireAdmin(http.HandlerFunc(rec.ApplicationsHandler))).Methods("GET")
	apiCreate.Handle("/recruitment/applications/{application_id}/decision", adm.RequireAdmin(http.HandlerFunc(rec.DecideApplicationHandler))).Methods("PUT")

	apiCreate.Handle("/leadership", http.HandlerFunc(lead.LeadershipHandler)).Methods("GET")
	apiCreate.Handle("/leadership", adm.RequireAdmin(http.HandlerFunc(lead.CreateLeadershipMemberHandler))).Methods("POST")

	apiCreate.Handle("/generate-signature", adm.RequireAdmin(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("club-api has connected to the database")

	// start the background jobs for due date reminders
	s := scheduler.NewScheduler(databases.NewIssuanceDatabase(a.dbHelper))
	s.Start()

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

// getPage returns the requested page from the query string, defaulting to 0
func getPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// getLimit returns the requested page size from the query string, defaulting
// to defaultLimit and capping at maxLimit
func getLimit(r *http.Request) int {
	const (
		defaultLimit = 25
		maxLimit     = 100
	)
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
