package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"labtrack/internal/database"
	"labtrack/internal/handler"
	middleware "labtrack/internal/midlleware"
	"labtrack/internal/repository"
	"labtrack/internal/service"
)

func main() {
	// .env нужен только для локальной разработки, его отсутствие не ошибка
	godotenv.Load()

	reset := flag.Bool("reset", false, "полностью очистить БД и накатить схему заново")
	flag.Parse()

	config := database.LoadConfig()

	db, err := database.Open(config)
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}
	defer db.Close()

	if *reset {
		if err := database.Reset(db, config.Driver); err != nil {
			log.Fatalf("Ошибка сброса БД: %v", err)
		}
	} else {
		if err := database.Migrate(db, config.Driver); err != nil {
			log.Fatalf("Ошибка миграции БД: %v", err)
		}
	}

	key := []byte(os.Getenv("SESSION_KEY"))
	if len(key) == 0 {
		// без постоянного ключа cookie перестанут читаться после рестарта
		key = securecookie.GenerateRandomKey(32)
		log.Println("SESSION_KEY не задан, ключ сгенерирован на время работы")
	}
	store := sessions.NewCookieStore(key)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	svc := service.NewSessionService(userRepo, sessionRepo)

	authMode := getEnv("AUTH_MODE", "anonymous")

	mux := http.NewServeMux()
	var root http.Handler = mux

	switch authMode {
	case "accounts":
		login := handler.NewLoginHandler(userRepo, store)
		registration := handler.NewRegistrationHandler(userRepo, store)
		home := handler.NewHomeHandler(svc, store)
		history := handler.NewHistoryHandler(svc, store)

		mux.HandleFunc("/login", login.Login)
		mux.HandleFunc("/register", registration.Register)
		mux.HandleFunc("/logout", login.Logout)
		mux.HandleFunc("/home", home.Home)
		mux.HandleFunc("/checkin", home.CheckIn)
		mux.HandleFunc("/equipment", home.Equipment)
		mux.HandleFunc("/checkout", home.CheckOut)
		mux.HandleFunc("/history", history.ForAccount)
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/home", http.StatusSeeOther)
		})

		root = middleware.RequireAuth(store)(mux)

	case "anonymous":
		checkin := handler.NewCheckinHandler(svc, store)
		equipment := handler.NewEquipmentHandler(svc, store)
		finish := handler.NewFinishHandler(svc, store)
		history := handler.NewHistoryHandler(svc, store)

		mux.HandleFunc("/", checkin.Index)
		mux.HandleFunc("/start_session", equipment.StartSession)
		mux.HandleFunc("/finish", finish.Finish)
		mux.HandleFunc("/end_session", finish.EndSession)
		mux.HandleFunc("/history", history.ByName)
		mux.HandleFunc("/logout", handler.Logout(store))

	default:
		log.Fatalf("Неизвестный AUTH_MODE: %s", authMode)
	}

	port := getEnv("PORT", "8080")

	log.Printf("Сервер запущен на порту %s (режим: %s, БД: %s)", port, authMode, config.Driver)
	if err := http.ListenAndServe(":"+port, root); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
