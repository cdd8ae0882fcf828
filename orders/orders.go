package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nguza/db"
	"nguza/models"
	"nguza/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlaceOrder snapshots the cart into an order and clears the cart. Prices
// are the ones stored in the cart, so a seller repricing a listing between
// add and checkout does not move the total.
func PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Shipping      models.ShippingInfo `json:"shipping"`
		PaymentMethod string              `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Shipping.FullName == "" || input.Shipping.Phone == "" || input.Shipping.District == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Shipping name, phone and district are required")
		return
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "cash_on_delivery"
	}

	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	defer cursor.Close(ctx)

	var cartItems []models.CartItem
	if err := cursor.All(ctx, &cartItems); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode cart")
		return
	}
	if len(cartItems) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	now := time.Now()
	items := make([]models.OrderItem, 0, len(cartItems))
	var total float64
	for _, c := range cartItems {
		items = append(items, models.OrderItem{
			ListingID: c.ListingID,
			Name:      c.Name,
			Unit:      c.Unit,
			Quantity:  c.Quantity,
			Price:     c.Price,
		})
		total += c.Price * float64(c.Quantity)
	}

	order := models.Order{
		OrderID:       "ord" + utils.GenerateRandomString(12),
		UserID:        userID,
		Items:         items,
		Shipping:      input.Shipping,
		PaymentMethod: input.PaymentMethod,
		Total:         total,
		Status:        models.OrderPending,
		History: []models.StatusEvent{
			{Status: models.OrderPending, By: userID, At: now},
		},
		CreatedAt: now,
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	_, _ = db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "order": order})
}

// GetMyOrders returns the caller's orders, most recent first.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Order
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	if items == nil {
		items = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "orders": items})
}

// GetOrder returns one order to its owner or an admin.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, status, msg := loadOrder(ctx, r, ps.ByName("id"))
	if order == nil {
		utils.RespondWithError(w, status, msg)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "order": order})
}

// PayOrder records payment on a pending order and moves it to Processing.
func PayOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, status, msg := loadOrder(ctx, r, ps.ByName("id"))
	if order == nil {
		utils.RespondWithError(w, status, msg)
		return
	}
	if order.Status != models.OrderPending {
		utils.RespondWithError(w, http.StatusBadRequest, "Only pending orders can be paid")
		return
	}

	now := time.Now()
	err := transition(ctx, order.OrderID, models.OrderProcessing,
		models.StatusEvent{Status: models.OrderProcessing, Note: "Payment received", By: utils.GetUserIDFromRequest(r), At: now},
		bson.M{"isPaid": true, "paidAt": now},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": models.OrderProcessing})
}

// DeliverOrder marks a processing order delivered. Admin only; the router
// enforces that.
func DeliverOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, status, msg := loadOrder(ctx, r, ps.ByName("id"))
	if order == nil {
		utils.RespondWithError(w, status, msg)
		return
	}
	if order.Status != models.OrderProcessing {
		utils.RespondWithError(w, http.StatusBadRequest, "Only processing orders can be delivered")
		return
	}

	now := time.Now()
	err := transition(ctx, order.OrderID, models.OrderDelivered,
		models.StatusEvent{Status: models.OrderDelivered, By: utils.GetUserIDFromRequest(r), At: now},
		bson.M{"isDelivered": true, "deliveredAt": now},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": models.OrderDelivered})
}

// CancelOrder cancels an order that has not been delivered. The owner can
// only cancel while the order is still pending; admins can cancel either
// pending or processing orders.
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, status, msg := loadOrder(ctx, r, ps.ByName("id"))
	if order == nil {
		utils.RespondWithError(w, status, msg)
		return
	}

	switch order.Status {
	case models.OrderPending:
	case models.OrderProcessing:
		if !utils.IsAdminRequest(r) {
			utils.RespondWithError(w, http.StatusForbidden, "Only admins can cancel a processing order")
			return
		}
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Order can no longer be cancelled")
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&input)

	now := time.Now()
	err := transition(ctx, order.OrderID, models.OrderCancelled,
		models.StatusEvent{Status: models.OrderCancelled, Note: input.Reason, By: utils.GetUserIDFromRequest(r), At: now},
		nil,
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": models.OrderCancelled})
}

// transition appends a history event and sets the new status plus any extra
// summary fields in a single update.
func transition(ctx context.Context, orderID, status string, event models.StatusEvent, extra bson.M) error {
	set := bson.M{"status": status}
	for k, v := range extra {
		set[k] = v
	}
	_, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{
			"$set":  set,
			"$push": bson.M{"history": event},
		},
	)
	return err
}

// loadOrder fetches an order and checks the requester is its owner or an
// admin. Returns nil plus a status/message pair on failure.
func loadOrder(ctx context.Context, r *http.Request, orderID string) (*models.Order, int, string) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		return nil, http.StatusUnauthorized, "Unauthorized"
	}

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, http.StatusNotFound, "Order not found"
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to fetch order"
	}
	if order.UserID != userID && !utils.IsAdminRequest(r) {
		return nil, http.StatusForbidden, "Not your order"
	}
	return &order, 0, ""
}
