package api

import (
	"net/http"
	"path/filepath"

	"fintrack-server/src/ai"
	"fintrack-server/src/config"
	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"
	"fintrack-server/src/prices"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const aiQuotaMessage = "Daily AI quota reached. Coba lagi besok."

func NewRouter(pool *pgxpool.Pool, cfg config.Config) *chi.Mux {
	photos := handlers.NewPhotoStore(cfg.UploadDir)
	priceClient := prices.NewClient(cfg.CoinGeckoURL)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.ReadOnlyMiddleware(cfg.ReadOnly))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Photos are stored under <parent of UploadDir>/expenses and linked as /uploads/expenses/<file>.
	uploads := http.FileServer(http.Dir(filepath.Dir(cfg.UploadDir)))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", uploads))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(pool, cfg.JWTSecret))
		r.Post("/auth/login", handlers.Login(pool, cfg.JWTSecret))
		r.Post("/auth/logout", handlers.Logout())
		r.Post("/price", handlers.GetPrices(priceClient))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(cfg.JWTSecret)).Group(func(r chi.Router) {
			// User
			r.Get("/auth/me", handlers.GetCurrentUser(pool))
			r.Put("/auth/password", handlers.ChangePassword(pool))

			// Accounts
			r.Get("/account-balance", handlers.GetAccounts(pool))
			r.Post("/account-balance", handlers.CreateAccount(pool))
			r.Put("/account-balance/{id}", handlers.UpdateAccount(pool))
			r.Delete("/account-balance/{id}", handlers.DeleteAccount(pool))

			// Expenses
			r.Get("/expenses", handlers.GetExpenses(pool))
			r.Post("/expenses", handlers.CreateExpense(pool, photos))
			r.Get("/expenses/export", handlers.ExportExpenses(pool))
			r.Get("/expenses/summary", handlers.GetExpenseSummary(pool))
			r.Get("/expenses/{id}", handlers.GetExpense(pool))
			r.Put("/expenses/{id}", handlers.UpdateExpense(pool, photos))
			r.Delete("/expenses/{id}", handlers.DeleteExpense(pool, photos))

			// Incomes
			r.Get("/income", handlers.GetIncomes(pool))
			r.Post("/income", handlers.CreateIncome(pool))
			r.Put("/income/{id}", handlers.UpdateIncome(pool))
			r.Delete("/income/{id}", handlers.DeleteIncome(pool))

			// Transfers
			r.Get("/transfers", handlers.GetTransfers(pool))
			r.Post("/transfers", handlers.CreateTransfer(pool))
			r.Delete("/transfers/{id}", handlers.DeleteTransfer(pool))

			// Budgets
			r.Get("/budgets", handlers.GetBudgets(pool))
			r.Post("/budgets", handlers.CreateBudget(pool))
			r.Get("/budgets/{id}", handlers.GetBudgetByID(pool))
			r.Put("/budgets/{id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{id}", handlers.DeleteBudget(pool))

			// Assets
			r.Get("/assets", handlers.GetAssets(pool))
			r.Post("/assets", handlers.CreateAsset(pool))
			r.Get("/assets/summary", handlers.GetPortfolioSummary(pool, priceClient))
			r.Put("/assets/{id}", handlers.UpdateAsset(pool))
			r.Delete("/assets/{id}", handlers.DeleteAsset(pool))

			// Reports
			r.Get("/dashboard", handlers.GetDashboard(pool))
			r.Get("/reports/statement", handlers.GetStatementPDF(pool))

			// AI
			if cfg.OpenRouterKey == "" {
				r.Post("/ai-context-chat", handlers.AIUnavailable())
			} else {
				quota := middleware.NewUserQuota(ai.DailyLimit, ai.QuotaWindow)
				client := ai.NewClient(cfg.OpenRouterKey, cfg.AIBaseURL, cfg.AppURL)
				r.With(quota.Limit(aiQuotaMessage)).Post("/ai-context-chat", handlers.AIContextChat(pool, client))
			}
		})
	})

	return r
}
