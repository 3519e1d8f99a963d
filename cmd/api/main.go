package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mealflow/pkg/dish"
	"mealflow/pkg/logger"
	"mealflow/pkg/order"
	"mealflow/pkg/otel"
	"mealflow/pkg/pipeline"
	"mealflow/pkg/storage"
	"mealflow/pkg/storage/memory"
	"mealflow/pkg/storage/postgres"
	"mealflow/pkg/storage/redisstore"
)

var tracer trace.Tracer

// @title MealFlow API
// @version 1.0
// @description API for managing dishes and delivery orders
// @host localhost:8080
// @BasePath /
func main() {
	// .env is optional outside local development.
	_ = godotenv.Load()

	logger.Init("mealflow")
	log := logger.Log
	defer log.Sync()

	if host := os.Getenv("OTEL_HOST"); host != "" {
		tp, shutdown, err := otel.InitTracing(log, otel.Config{
			ServiceName: "mealflow",
			Host:        host,
			Probability: 1.0,
		})
		if err != nil {
			log.Warn("tracing disabled", zap.Error(err))
		} else {
			defer shutdown(context.Background())
			tracer = tp.Tracer("mealflow")
		}
	}

	dishes, orders, err := openStores(log)
	if err != nil {
		log.Fatal("open stores", zap.Error(err))
	}

	r := mux.NewRouter()
	r.Use(traceMiddleware)
	dish.NewHandler(dishes, log).Register(r)
	order.NewHandler(orders, log).Register(r)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		pipeline.RespondError(w, pipeline.NotFound("Not found: %s", req.URL.Path))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("listening", zap.String("addr", ":"+port))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal("server closed", zap.Error(err))
	}
}

// openStores picks the storage backend from the environment: Postgres when
// DATABASE_URL is set, Redis when REDIS_ADDR is set, in-memory otherwise.
func openStores(log *zap.Logger) (storage.Repository[dish.Dish], storage.Repository[order.Order], error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Schema(db); err != nil {
			return nil, nil, err
		}
		log.Info("storage backend", zap.String("kind", "postgres"))
		return postgres.NewDishRepository(db), postgres.NewOrderRepository(db), nil
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		log.Info("storage backend", zap.String("kind", "redis"))
		return redisstore.New(client, "dishes", func(d dish.Dish) string { return d.ID }),
			redisstore.New(client, "orders", func(o order.Order) string { return o.ID }), nil
	}
	log.Info("storage backend", zap.String("kind", "memory"))
	return memory.New(func(d dish.Dish) string { return d.ID }),
		memory.New(func(o order.Order) string { return o.ID }), nil
}

// traceMiddleware makes the tracer reachable from every handler span.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tracer != nil {
			r = r.WithContext(otel.InjectTracing(r.Context(), tracer))
		}
		next.ServeHTTP(w, r)
	})
}
