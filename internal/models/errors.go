package models

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound        = status.Errorf(codes.NotFound, "not found")
	ErrOutOfStock      = status.Errorf(codes.FailedPrecondition, "product is out of stock")
	ErrInvalidQuantity = status.Errorf(codes.InvalidArgument, "quantity must be positive")
	ErrQuantityLimit   = status.Errorf(codes.InvalidArgument, "quantity exceeds the per-line limit of 99")
	ErrUnknownPlan     = status.Errorf(codes.InvalidArgument, "unknown rental plan")
	ErrInvalidItemType = status.Errorf(codes.InvalidArgument, "item type must be purchase or rental")
)
