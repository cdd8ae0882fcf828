package routes

import (
	"net/http"
	"time"

	"nguza/admin"
	"nguza/auth"
	"nguza/cache"
	"nguza/cart"
	"nguza/listings"
	"nguza/middleware"
	"nguza/orders"
	"nguza/ratelim"
	"nguza/reference"
	"nguza/wishlist"

	"github.com/julienschmidt/httprouter"
)

const (
	listingsTTL  = time.Minute
	referenceTTL = time.Hour
)

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, pc *cache.Cache) {
	AddAuthRoutes(router, rl)
	AddListingRoutes(router, rl, pc)
	AddCartRoutes(router, rl)
	AddWishlistRoutes(router, rl)
	AddOrderRoutes(router, rl)
	AddAdminRoutes(router, rl, pc)
	AddReferenceRoutes(router, pc)
	AddStaticRoutes(router)
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/listingpic/*filepath", http.Dir("static/listingpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/signup", rl.Limit(auth.Signup))
	router.POST("/api/auth/signin", rl.Limit(auth.Signin))
	router.POST("/api/auth/google", rl.Limit(auth.Google))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddListingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, pc *cache.Cache) {
	// Reads go through the page cache; writes invalidate the listing family.
	// CountView sits outside the cache so every GET of a listing counts,
	// cache hit or not.
	router.GET("/api/listings", pc.Page(listingsTTL, listings.GetListings))
	router.GET("/api/listings/:id", listings.CountView(pc.Page(listingsTTL, listings.GetListing)))
	router.POST("/api/listings/:id/contact-click", rl.Limit(listings.RecordContactClick))

	router.POST("/api/listings", rl.Limit(middleware.Authenticate(pc.InvalidateAfter("/api/listings", listings.CreateListing))))
	router.PUT("/api/listings/:id", middleware.Authenticate(pc.InvalidateAfter("/api/listings", listings.UpdateListing)))
	router.DELETE("/api/listings/:id", middleware.Authenticate(pc.InvalidateAfter("/api/listings", listings.DeleteListing)))
	router.POST("/api/listings/:id/sold", middleware.Authenticate(pc.InvalidateAfter("/api/listings", listings.MarkSold)))

	router.GET("/api/my/listings", middleware.Authenticate(listings.MyListings))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.PUT("/api/cart/:id", middleware.Authenticate(cart.UpdateCartItem))
	router.DELETE("/api/cart/:id", middleware.Authenticate(cart.RemoveFromCart))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
}

func AddWishlistRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/wishlist", middleware.Authenticate(wishlist.GetWishlist))
	router.POST("/api/wishlist/:id", rl.Limit(middleware.Authenticate(wishlist.ToggleWishlist)))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(orders.PlaceOrder)))
	router.GET("/api/orders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/:id", middleware.Authenticate(orders.GetOrder))
	router.POST("/api/orders/:id/pay", middleware.Authenticate(orders.PayOrder))
	router.POST("/api/orders/:id/deliver", middleware.RequireAdmin(orders.DeliverOrder))
	router.POST("/api/orders/:id/cancel", middleware.Authenticate(orders.CancelOrder))
	router.GET("/api/orders/:id/receipt", middleware.Authenticate(orders.PrintReceipt))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, pc *cache.Cache) {
	router.GET("/api/admin/stats", middleware.RequireAdmin(admin.Stats))
	router.GET("/api/admin/users", middleware.RequireAdmin(admin.ListUsers))
	router.PUT("/api/admin/users/:id/ban", middleware.RequireAdmin(pc.InvalidateAfter("/api/listings", admin.SetUserBan)))

	// Admin listing views reuse the public compiler with the status override
	// left intact.
	router.GET("/api/admin/listings", middleware.RequireAdmin(listings.AdminListings))
	router.PUT("/api/admin/listings/:id/moderate", middleware.RequireAdmin(pc.InvalidateAfter("/api/listings", admin.Moderate)))
	router.PUT("/api/admin/listings/:id/suspend", middleware.RequireAdmin(pc.InvalidateAfter("/api/listings", admin.SuspendListing)))
	router.PUT("/api/admin/listings/:id/promote", middleware.RequireAdmin(pc.InvalidateAfter("/api/listings", admin.PromoteListing)))
	router.DELETE("/api/admin/listings/:id", middleware.RequireAdmin(pc.InvalidateAfter("/api/listings", admin.DeleteListing)))
}

func AddReferenceRoutes(router *httprouter.Router, pc *cache.Cache) {
	router.GET("/api/reference/categories", pc.Page(referenceTTL, reference.GetCategories))
	router.GET("/api/reference/units", pc.Page(referenceTTL, reference.GetUnits))
	router.GET("/api/reference/districts", pc.Page(referenceTTL, reference.GetDistricts))
	router.GET("/api/reference/crop-types", pc.Page(referenceTTL, reference.GetCropTypes))
	router.GET("/api/reference/livestock-breeds", pc.Page(referenceTTL, reference.GetLivestockBreeds))
}
