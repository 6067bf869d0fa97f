package handler

import (
	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

func toCreateOrderInput(req createOrderRequest, who ports.Requester) ports.CreateOrderInput {
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Image:    it.Image,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	s := req.ShippingInfo
	return ports.CreateOrderInput{
		Requester: who,
		Items:     items,
		Shipping: domain.ShippingInfo{
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Address:   s.Address,
			City:      s.City,
			State:     s.State,
			ZipCode:   s.ZipCode,
			Country:   s.Country,
			Phone:     s.Phone,
		},
		Payment: ports.PaymentInput{
			Method:       req.PaymentInfo.Method,
			CardName:     req.PaymentInfo.CardName,
			CardNumber:   req.PaymentInfo.CardNumber,
			CardLastFour: req.PaymentInfo.CardLastFour,
		},
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Image:    it.Image,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	s := o.ShippingInfo
	return orderResponse{
		ID:     o.ID,
		UserID: o.UserID,
		Status: string(o.Status),
		Items:  items,
		ShippingInfo: shippingInfoResponse{
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Address:   s.Address,
			City:      s.City,
			State:     s.State,
			ZipCode:   s.ZipCode,
			Country:   s.Country,
			Phone:     s.Phone,
		},
		PaymentInfo: paymentInfoResponse{
			Method:       o.PaymentInfo.Method,
			CardName:     o.PaymentInfo.CardName,
			CardLastFour: o.PaymentInfo.CardLastFour,
		},
		Total:             o.Total,
		CreatedAt:         o.CreatedAt,
		EstimatedDelivery: o.EstimatedDelivery,
		StatusHistory:     toUpdateResponses(o.StatusHistory),
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toTrackingResponse(t *domain.Tracking) trackingResponse {
	return trackingResponse{
		OrderID:         t.OrderID,
		Status:          string(t.Status),
		CurrentLocation: t.CurrentLocation,
		Updates:         toUpdateResponses(t.Updates),
	}
}

func toUpdateResponses(updates []domain.LocationUpdate) []locationUpdateResponse {
	out := make([]locationUpdateResponse, 0, len(updates))
	for _, u := range updates {
		r := locationUpdateResponse{
			Status:    string(u.Status),
			Location:  u.Location,
			Timestamp: u.Timestamp,
			Notes:     u.Notes,
		}
		if u.Coordinates != nil {
			r.Coordinates = &coordinatesResponse{Lat: u.Coordinates.Lat, Lng: u.Coordinates.Lng}
		}
		out = append(out, r)
	}
	return out
}
