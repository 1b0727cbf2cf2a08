// Package routes wires repositories, role controls, engine services and HTTP
// handlers into the Fiber application.
package routes

import (
	"fmt"

	"escrowd/internal/access"
	"escrowd/internal/config"
	"escrowd/internal/handlers"
	"escrowd/internal/middleware"
	"escrowd/internal/repositories"
	"escrowd/internal/services/acceptor"
	"escrowd/internal/services/auth"
	"escrowd/internal/services/gateway"
	"escrowd/internal/services/history"
	"escrowd/internal/services/payout"
	"escrowd/internal/services/processor"
	"escrowd/internal/services/reputation"
	"escrowd/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes builds the full engine for the configured merchant and mounts
// the API surface. Role state is persisted, so owner and operator grants
// survive restarts.
func SetupRoutes(app *fiber.App, db *gorm.DB) error {
	store := repositories.NewStore(db)

	owner := config.GetEnv("PLATFORM_OWNER", "platform-owner")
	operator := config.GetEnv("PLATFORM_OPERATOR", "")
	merchantID := config.GetEnv("MERCHANT_ID", "merchant-1")
	merchantAccount := config.GetEnv("MERCHANT_ACCOUNT", "merchant-account")
	vault := config.GetEnv("VAULT_ADDRESS", "platform-vault")
	acceptorID := config.GetEnv("ACCEPTOR_ID", "acceptor-1")

	controls := make(map[string]*access.Control)
	newControl := func(component string) (*access.Control, error) {
		ctl, err := access.NewControl(component, owner, store.RoleSets)
		if err != nil {
			return nil, fmt.Errorf("init %s control: %w", component, err)
		}
		controls[component] = ctl
		return ctl, nil
	}

	gatewayControl, err := newControl("gateway")
	if err != nil {
		return err
	}
	walletControl, err := newControl("wallet")
	if err != nil {
		return err
	}
	historyControl, err := newControl("history")
	if err != nil {
		return err
	}
	processorControl, err := newControl("processor")
	if err != nil {
		return err
	}
	acceptorControl, err := newControl("acceptor")
	if err != nil {
		return err
	}
	reputationControl, err := newControl("reputation")
	if err != nil {
		return err
	}

	fees := gateway.NewFeePolicy(config.GetInt64Env("FEE_PERMILLE", gateway.DefaultFeePermille))
	gatewayService := gateway.NewService(store, gatewayControl, vault, fees)

	var provider payout.Provider = payout.NoopProvider{}
	if key := config.GetEnv("STRIPE_SECRET_KEY", ""); key != "" {
		provider = payout.NewStripeProvider(key, config.GetEnv("PAYOUT_CURRENCY", "usd"))
	}
	var walletCache wallet.Cache
	if repositories.CacheService != nil {
		walletCache = repositories.CacheService
	}
	walletService, err := wallet.NewService(store, walletCache, walletControl, provider, wallet.Config{
		MerchantID:      merchantID,
		MerchantAccount: merchantAccount,
		EscrowAddress:   "escrow:wallet:" + merchantID,
		FundAddress:     config.GetEnv("FUND_ADDRESS", ""),
	})
	if err != nil {
		return fmt.Errorf("init wallet: %w", err)
	}

	historyService := history.NewService(store, historyControl, merchantID)

	processorEscrow := "escrow:processor:" + merchantID
	processorService, err := processor.NewService(store, processorControl, processor.Config{
		MerchantID:    merchantID,
		EscrowAddress: processorEscrow,
	}, gatewayService, historyService, walletService)
	if err != nil {
		return fmt.Errorf("init processor: %w", err)
	}

	acceptorEscrow := "escrow:acceptor:" + acceptorID
	acceptorService, err := acceptor.NewService(store, acceptorControl, acceptor.Config{
		AcceptorID:    acceptorID,
		MerchantID:    merchantID,
		EscrowAddress: acceptorEscrow,
		Lifetime:      config.GetDurationEnv("ACCEPTOR_LIFETIME", acceptor.DefaultLifetime),
	}, gatewayService, historyService, walletService)
	if err != nil {
		return fmt.Errorf("init acceptor: %w", err)
	}

	reputationService := reputation.NewService(store, reputationControl)
	claimService := reputation.NewClaimService(store, reputationControl)

	// Settlement components act through their escrow identity when they call
	// into the gateway, the deal history and the wallet reputation ledger.
	for _, grant := range []struct {
		ctl  *access.Control
		addr string
	}{
		{gatewayControl, processorEscrow},
		{historyControl, processorEscrow},
		{walletControl, processorEscrow},
		{gatewayControl, acceptorEscrow},
		{historyControl, acceptorEscrow},
		{walletControl, acceptorEscrow},
	} {
		if err := grant.ctl.SetOperator(owner, grant.addr, true); err != nil {
			return fmt.Errorf("grant operator: %w", err)
		}
	}
	if operator != "" {
		for _, ctl := range controls {
			if err := ctl.SetOperator(owner, operator, true); err != nil {
				return fmt.Errorf("grant operator: %w", err)
			}
		}
	}

	authService := auth.NewService(store.Principals, config.GetEnv("JWT_SECRET", "escrowd"))
	authMiddleware := middleware.NewAuthMiddleware(authService)

	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(processorService)
	walletHandler := handlers.NewWalletHandler(walletService)
	gatewayHandler := handlers.NewGatewayHandler(gatewayService)
	acceptorHandler := handlers.NewAcceptorHandler(acceptorService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	reputationHandler := handlers.NewReputationHandler(reputationService, claimService)
	adminHandler := handlers.NewAdminHandler(controls)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Escrowd settlement engine",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	api.Post("/login", authHandler.Login)

	protected := api.Use(authMiddleware.Handler)

	orders := protected.Group("/orders")
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/", orderHandler.AddOrder)
	orders.Post("/:id/secure-pay", orderHandler.SecurePay)
	orders.Post("/pay", orderHandler.PayForOrder)
	orders.Post("/:id/process", orderHandler.ProcessPayment)
	orders.Post("/:id/refund", orderHandler.RefundPayment)
	orders.Post("/:id/refund-direct", orderHandler.RefundDirect)
	orders.Post("/:id/withdraw-refund", orderHandler.WithdrawRefund)
	orders.Post("/:id/cancel", orderHandler.CancelOrder)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Post("/profile", walletHandler.SetProfile)
	walletGroup.Get("/profile/:key", walletHandler.GetProfile)
	walletGroup.Post("/settings", walletHandler.SetPaymentSettings)
	walletGroup.Get("/settings/:key", walletHandler.GetPaymentSetting)
	walletGroup.Post("/reputation", walletHandler.SetCompositeReputation)
	walletGroup.Get("/reputation/:category", walletHandler.GetCompositeReputation)
	walletGroup.Post("/merchant-account", walletHandler.ChangeMerchantAccount)
	walletGroup.Post("/fund-address", walletHandler.ChangeFundAddress)
	walletGroup.Post("/withdraw", walletHandler.Withdraw)
	walletGroup.Post("/withdraw-exchange", walletHandler.WithdrawToExchange)

	gatewayGroup := protected.Group("/gateway")
	gatewayGroup.Get("/fees", gatewayHandler.GetFees)
	gatewayGroup.Post("/accept", gatewayHandler.AcceptPayment)
	gatewayGroup.Post("/vault", gatewayHandler.ChangeVault)

	acceptorGroup := protected.Group("/acceptor")
	acceptorGroup.Get("/", acceptorHandler.GetState)
	acceptorGroup.Post("/order", acceptorHandler.AssignOrder)
	acceptorGroup.Post("/unassign", acceptorHandler.UnassignMerchant)
	acceptorGroup.Post("/secure-pay", acceptorHandler.SecurePay)
	acceptorGroup.Post("/pay", acceptorHandler.Pay)
	acceptorGroup.Post("/client", acceptorHandler.SetClient)
	acceptorGroup.Post("/process", acceptorHandler.ProcessPayment)
	acceptorGroup.Post("/refund", acceptorHandler.RefundPayment)
	acceptorGroup.Post("/withdraw-refund", acceptorHandler.WithdrawRefund)
	acceptorGroup.Post("/cancel", acceptorHandler.CancelOrder)
	acceptorGroup.Post("/lifetime", acceptorHandler.SetLifetime)

	historyGroup := protected.Group("/history")
	historyGroup.Get("/deals", historyHandler.GetDeals)
	historyGroup.Post("/deals", historyHandler.RecordDeal)

	reputationGroup := protected.Group("/reputation")
	reputationGroup.Get("/users/:address", reputationHandler.GetUser)
	reputationGroup.Post("/users", reputationHandler.RegisterUser)
	reputationGroup.Put("/users/:address", reputationHandler.UpdateUser)
	reputationGroup.Post("/users/bulk", reputationHandler.UpdateUsersInBulk)
	reputationGroup.Post("/users/trust-bulk", reputationHandler.UpdateTrustScoresInBulk)
	reputationGroup.Get("/claims/:address", reputationHandler.GetClaim)
	reputationGroup.Post("/claims", reputationHandler.UpdateClaim)
	reputationGroup.Delete("/claims/:address", reputationHandler.DeleteClaim)
	reputationGroup.Post("/claims/bulk", reputationHandler.UpdateClaimsInBulk)
	reputationGroup.Post("/claims/delete-bulk", reputationHandler.DeleteClaimsInBulk)

	adminGroup := protected.Group("/admin")
	adminGroup.Get("/:component", adminHandler.GetStatus)
	adminGroup.Post("/:component/pause", adminHandler.Pause)
	adminGroup.Post("/:component/unpause", adminHandler.Unpause)
	adminGroup.Post("/:component/operators", adminHandler.SetOperator)
	adminGroup.Post("/:component/ownership", adminHandler.TransferOwnership)

	return nil
}
