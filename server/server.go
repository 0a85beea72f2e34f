package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/primepulse/pkg/auth"
	"github.com/example/primepulse/pkg/config"
	"github.com/example/primepulse/pkg/service"
)

type Server struct {
	config     *config.Config
	logger     *zap.Logger
	router     *gin.Engine
	tokens     *auth.TokenIssuer
	auth       *service.AuthService
	addresses  *service.AddressService
	banks      *service.BankService
	categories *service.CategoryService
	companies  *service.CompanyService
	products   *service.ProductService
	carts      *service.CartService
	favourites *service.FavouriteService
	orders     *service.OrderService
}

type Services struct {
	Auth       *service.AuthService
	Addresses  *service.AddressService
	Banks      *service.BankService
	Categories *service.CategoryService
	Companies  *service.CompanyService
	Products   *service.ProductService
	Carts      *service.CartService
	Favourites *service.FavouriteService
	Orders     *service.OrderService
}

func NewServer(cfg *config.Config, logger *zap.Logger, tokens *auth.TokenIssuer, svcs Services) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))

	return &Server{
		config:     cfg,
		logger:     logger,
		router:     router,
		tokens:     tokens,
		auth:       svcs.Auth,
		addresses:  svcs.Addresses,
		banks:      svcs.Banks,
		categories: svcs.Categories,
		companies:  svcs.Companies,
		products:   svcs.Products,
		carts:      svcs.Carts,
		favourites: svcs.Favourites,
		orders:     svcs.Orders,
	}
}

func (s *Server) SetupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userAuth := s.authenticate(auth.AudienceUser)
	adminAuth := s.authenticate(auth.AudienceAdmin)

	authGroup := s.router.Group("/auth")
	{
		authGroup.POST("/user/signup", s.userSignup)
		authGroup.POST("/user/login", s.userLogin)
		authGroup.POST("/user/change-password", userAuth, s.changePassword)
		authGroup.POST("/user/forgot-password", s.forgotPassword)
		authGroup.POST("/user/reset-password", s.resetPassword)
		authGroup.POST("/admin/signup", s.adminSignup)
		authGroup.POST("/admin/login", s.adminLogin)
	}

	address := s.router.Group("/address", userAuth)
	{
		address.POST("", s.createAddress)
		address.GET("", s.listAddresses)
		address.GET("/:id", s.getAddress)
		address.PATCH("/:id", s.updateAddress)
		address.DELETE("/:id", s.deleteAddress)
	}

	bank := s.router.Group("/bank", userAuth)
	{
		bank.POST("", s.createBank)
		bank.GET("", s.listBanks)
		bank.GET("/:id", s.getBank)
		bank.PATCH("/:id", s.updateBank)
		bank.DELETE("/:id", s.deleteBank)
	}

	category := s.router.Group("/category")
	{
		category.POST("", adminAuth, requireSuperAdmin(), s.createCategory)
		category.GET("", s.listCategories)
		category.GET("/:id", s.getCategory)
		category.PATCH("/:id", adminAuth, requireSuperAdmin(), s.updateCategory)
		category.DELETE("/:id", adminAuth, requireSuperAdmin(), s.deleteCategory)
		category.POST("/:id/subcategory", adminAuth, requireSuperAdmin(), s.createSubCategory)
		category.PATCH("/subcategory/:id", adminAuth, requireSuperAdmin(), s.updateSubCategory)
		category.DELETE("/subcategory/:id", adminAuth, requireSuperAdmin(), s.deleteSubCategory)
	}

	aggregate := s.router.Group("/aggregate")
	{
		aggregate.GET("/get-categories-and-subcategories", s.categoryTree)
		aggregate.GET("/get-category-by-id-and-subcategories/:category_id", s.categoryTreeByID)
	}

	company := s.router.Group("/company")
	{
		company.POST("", userAuth, requireManufacturer(), s.createCompany)
		company.GET("", adminAuth, s.listCompanies)
		company.GET("/:id", s.getCompany)
		company.PATCH("/:id", userAuth, requireManufacturer(), s.updateCompany)
		company.DELETE("/:id", adminAuth, requireSuperAdmin(), s.deleteCompany)
	}

	product := s.router.Group("/product")
	{
		product.POST("", userAuth, requireManufacturer(), s.createProduct)
		product.GET("", s.listProducts)
		product.GET("/:id", s.getProduct)
		product.GET("/category/:id", s.listProductsByCategory)
		product.GET("/subcategory/:id", s.listProductsBySubCategory)
		product.PATCH("/:id", userAuth, requireManufacturer(), s.updateProduct)
		product.DELETE("/:id", userAuth, requireManufacturer(), s.deleteProduct)
	}

	cart := s.router.Group("/cart", userAuth)
	{
		cart.POST("", s.addToCart)
		cart.GET("", s.getCart)
		cart.DELETE("/:id", s.removeCartItem)
		cart.PATCH("/:id/:quantity", s.reduceCartItem)
	}

	favourite := s.router.Group("/favourite-item", userAuth)
	{
		favourite.POST("", s.addFavourite)
		favourite.GET("", s.listFavourites)
		favourite.GET("/:id", s.getFavourite)
		favourite.DELETE("/:id", s.removeFavourite)
	}

	order := s.router.Group("/order")
	{
		order.POST("", userAuth, s.createOrder)
		order.GET("", userAuth, s.listOrders)
		order.GET("/:id", userAuth, s.getOrder)
		order.DELETE("/:id", userAuth, s.cancelOrder)

		order.GET("/all/manufacturer", userAuth, requireManufacturer(), s.listManufacturerOrders)
		order.GET("/manufacturer/:id", userAuth, requireManufacturer(), s.getManufacturerOrder)

		order.GET("/all/admins", adminAuth, s.listAdminOrders)
		order.GET("/admin/:id", adminAuth, s.getAdminOrder)
		order.PATCH("/admin/update-payment-status/:id", adminAuth, s.updateOrderPaymentStatus)
	}
}

func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.logger.Info("server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
