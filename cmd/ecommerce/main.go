package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/auth"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/client/stripe"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/config"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/handler/http"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/logger"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/storage"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/storage/repository"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	stripeClient, err := stripe.NewClient(conf.Stripe, log.Named("Stripe"))
	if err != nil {
		log.Error("stripe client creating error", zap.Error(err))
		return
	}

	userService, err := service.NewUserService(repo, tokenService, log.Named("UserService"))
	if err != nil {
		log.Error("user service creating error", zap.Error(err))
		return
	}
	catalogService, err := service.NewCatalogService(repo, log.Named("CatalogService"))
	if err != nil {
		log.Error("catalog service creating error", zap.Error(err))
		return
	}
	cartService, err := service.NewCartService(repo, log.Named("CartService"))
	if err != nil {
		log.Error("cart service creating error", zap.Error(err))
		return
	}
	orderService, err := service.NewOrderService(repo, log.Named("OrderService"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}
	paymentService, err := service.NewPaymentService(repo, stripeClient, log.Named("PaymentService"))
	if err != nil {
		log.Error("payment service creating error", zap.Error(err))
		return
	}

	userHandler, err := http.NewUserHandler(userService, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	productHandler, err := http.NewProductHandler(catalogService, log.Named("Product handler"))
	if err != nil {
		log.Error("product handler creating error", zap.Error(err))
		return
	}
	categoryHandler, err := http.NewCategoryHandler(catalogService, log.Named("Category handler"))
	if err != nil {
		log.Error("category handler creating error", zap.Error(err))
		return
	}
	cartHandler, err := http.NewCartHandler(cartService, log.Named("Cart handler"))
	if err != nil {
		log.Error("cart handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(orderService, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	orderAdminHandler, err := http.NewOrderAdminHandler(orderService, log.Named("Order admin handler"))
	if err != nil {
		log.Error("order admin handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(paymentService, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, log.Named("Router"),
		userHandler, productHandler, categoryHandler, cartHandler,
		orderHandler, orderAdminHandler, paymentHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Serve(conf.HTTP.HostString)
	})
	g.Go(func() error {
		<-gctx.Done()
		return gctx.Err()
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("server error", zap.Error(err))
	}
}
