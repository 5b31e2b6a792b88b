package handler

import (
	"gigstage/internal/usecase"
)

var (
	authHandler         *AuthHandler
	performerHandler    *PerformerHandler
	bookingHandler      *BookingHandler
	marketHandler       *MarketHandler
	reviewHandler       *ReviewHandler
	availabilityHandler *AvailabilityHandler
	subscriptionHandler *SubscriptionHandler
	chatHandler         *ChatHandler
	paymentHandler      *PaymentHandler
)

func Setup(
	authUsecase *usecase.AuthUsecase,
	performerUsecase *usecase.PerformerUsecase,
	bookingUsecase *usecase.BookingUsecase,
	marketUsecase *usecase.MarketUsecase,
	reviewUsecase *usecase.ReviewUsecase,
	availabilityUsecase *usecase.AvailabilityUsecase,
	subscriptionUsecase *usecase.SubscriptionUsecase,
	chatUsecase *usecase.ChatUsecase,
) {
	authHandler = NewAuthHandler(authUsecase)
	performerHandler = NewPerformerHandler(performerUsecase, reviewUsecase)
	bookingHandler = NewBookingHandler(bookingUsecase)
	marketHandler = NewMarketHandler(marketUsecase)
	reviewHandler = NewReviewHandler(reviewUsecase)
	availabilityHandler = NewAvailabilityHandler(availabilityUsecase, performerUsecase)
	subscriptionHandler = NewSubscriptionHandler(subscriptionUsecase)
	chatHandler = NewChatHandler(chatUsecase)
	paymentHandler = NewPaymentHandler(bookingUsecase, subscriptionUsecase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetPerformerHandler() *PerformerHandler {
	return performerHandler
}

func GetBookingHandler() *BookingHandler {
	return bookingHandler
}

func GetMarketHandler() *MarketHandler {
	return marketHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetAvailabilityHandler() *AvailabilityHandler {
	return availabilityHandler
}

func GetSubscriptionHandler() *SubscriptionHandler {
	return subscriptionHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}
