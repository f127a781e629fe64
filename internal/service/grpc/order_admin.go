// Package grpcsvc — gRPC-поверхность оператора: чтение заказов и смена статуса исполнения.
package grpcsvc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/idempotency"
	adminv1 "github.com/vladislavdragonenkov/storefront/proto/storefront/admin/v1"
)

// OrderService — операции журнала заказов, нужные оператору.
type OrderService interface {
	Get(ctx context.Context, orderID string) (domain.Order, error)
	List(ctx context.Context, page, limit int) (domain.OrderPage, error)
	Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}

// OrderAdmin реализует adminv1.OrderAdminServer поверх журнала заказов.
type OrderAdmin struct {
	adminv1.UnimplementedOrderAdminServer

	orders OrderService
	guard  *idempotency.Guard
	logger *log.Entry
}

var _ adminv1.OrderAdminServer = (*OrderAdmin)(nil)

// NewOrderAdmin создаёт сервис. guard может быть nil, тогда idempotency-key игнорируется.
func NewOrderAdmin(orders OrderService, guard *idempotency.Guard, logger *log.Entry) *OrderAdmin {
	if logger == nil {
		logger = log.New().WithField("component", "order-admin")
	}
	return &OrderAdmin{orders: orders, guard: guard, logger: logger}
}

// GetOrder возвращает заказ с историей.
func (s *OrderAdmin) GetOrder(ctx context.Context, req *adminv1.GetOrderRequest) (*adminv1.GetOrderResponse, error) {
	orderID := strings.TrimSpace(req.GetOrderId())
	if orderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, s.toStatus(err, orderID)
	}
	timeline, err := s.orders.Timeline(ctx, orderID)
	if err != nil {
		return nil, s.toStatus(err, orderID)
	}
	return &adminv1.GetOrderResponse{Order: orderToProto(order), Timeline: timelineToProto(timeline)}, nil
}

// ListOrders возвращает страницу заказов; page и limit нормализует журнал.
func (s *OrderAdmin) ListOrders(ctx context.Context, req *adminv1.ListOrdersRequest) (*adminv1.ListOrdersResponse, error) {
	page, err := s.orders.List(ctx, int(req.GetPage()), int(req.GetLimit()))
	if err != nil {
		return nil, s.toStatus(err, "")
	}
	return pageToProto(page), nil
}

// UpdateOrderStatus меняет статус исполнения.
func (s *OrderAdmin) UpdateOrderStatus(ctx context.Context, req *adminv1.UpdateOrderStatusRequest) (*adminv1.UpdateOrderStatusResponse, error) {
	orderID := strings.TrimSpace(req.GetOrderId())
	if orderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	next, ok := orderStatusFromProto(req.GetOrderStatus())
	if !ok {
		return nil, status.Error(codes.InvalidArgument, domain.ErrOrderStatusInvalid.Error())
	}

	return withIdempotency(s, ctx, adminv1.OrderAdmin_UpdateOrderStatus_FullMethodName, req,
		func() *adminv1.UpdateOrderStatusResponse { return &adminv1.UpdateOrderStatusResponse{} },
		func(ctx context.Context) (*adminv1.UpdateOrderStatusResponse, error) {
			order, err := s.orders.UpdateStatus(ctx, orderID, next)
			if err != nil {
				return nil, s.toStatus(err, orderID)
			}
			return &adminv1.UpdateOrderStatusResponse{Order: orderToProto(order)}, nil
		},
	)
}

// toStatus переводит доменную ошибку в статус gRPC.
func (s *OrderAdmin) toStatus(err error, orderID string) error {
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.ErrNotFound:
		return status.Error(codes.NotFound, err.Error())
	case domain.ErrUnauthenticated:
		return status.Error(codes.Unauthenticated, err.Error())
	case domain.ErrInvalidTransition:
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.ErrUpstreamUnavailable:
		return status.Error(codes.Unavailable, err.Error())
	default:
		s.logger.WithError(err).WithField("order_id", orderID).Error("order admin request failed")
		return status.Error(codes.Internal, "internal error")
	}
}

const idempotencyKeyHeader = "idempotency-key"

type idempotencyErrorPayload struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// withIdempotency выполняет handler не более одного раза на idempotency-key из metadata
// и воспроизводит сохранённый ответ или ошибку при повторе.
func withIdempotency[T proto.Message](
	s *OrderAdmin,
	ctx context.Context,
	method string,
	req proto.Message,
	newResp func() T,
	handler func(context.Context) (T, error),
) (T, error) {
	var zero T

	key, ok := readIdempotencyKey(ctx)
	if s.guard == nil || !ok {
		return handler(ctx)
	}

	body, err := proto.MarshalOptions{Deterministic: true}.Marshal(req)
	if err != nil {
		s.logger.WithError(err).WithField("method", method).Warn("failed to build idempotency request hash")
		return zero, status.Error(codes.Internal, "failed to initialize idempotency request")
	}

	var (
		result T
		runErr error
	)
	resp, replayed, err := s.guard.Execute(ctx, key, method, body, func(ctx context.Context) idempotency.Response {
		result, runErr = handler(ctx)
		if runErr != nil {
			return encodeFailure(runErr)
		}
		data, err := protojson.Marshal(result)
		if err != nil {
			return encodeFailure(status.Error(codes.Internal, "failed to encode response"))
		}
		return idempotency.Response{Status: int(codes.OK), Body: data}
	})
	switch {
	case errors.Is(err, domain.ErrIdempotencyHashMismatch):
		return zero, status.Error(codes.AlreadyExists, "idempotency key is already used with different request payload")
	case errors.Is(err, idempotency.ErrRequestInFlight):
		return zero, status.Error(codes.Aborted, "request with the same idempotency key is already processing")
	case err != nil:
		s.logger.WithError(err).WithField("idempotency_key", key).Warn("failed to create idempotency record")
		return zero, status.Error(codes.Internal, "failed to initialize idempotency request")
	}

	if !replayed {
		return result, runErr
	}
	return decodeReplay(resp, newResp)
}

func encodeFailure(runErr error) idempotency.Response {
	st := status.Convert(runErr)
	code := st.Code()
	if code == codes.OK {
		code = codes.Internal
	}
	payload, _ := json.Marshal(idempotencyErrorPayload{
		Code:    int32(code), //nolint:gosec // codes.Code is a bounded enum value.
		Message: st.Message(),
	})
	return idempotency.Response{Status: int(code), Body: payload}
}

func decodeReplay[T proto.Message](resp idempotency.Response, newResp func() T) (T, error) {
	var zero T

	if resp.Status == int(codes.OK) {
		out := newResp()
		if err := protojson.Unmarshal(resp.Body, out); err != nil {
			return zero, status.Error(codes.Internal, "failed to decode cached idempotency response")
		}
		return out, nil
	}

	var payload idempotencyErrorPayload
	if err := json.Unmarshal(resp.Body, &payload); err == nil {
		if code, ok := grpcCodeFromInt32(payload.Code); ok && code != codes.OK {
			return zero, status.Error(code, payload.Message)
		}
	}
	return zero, status.Error(codes.Internal, "previous request with the same idempotency key failed")
}

func grpcCodeFromInt32(value int32) (codes.Code, bool) {
	if value < int32(codes.OK) || value > int32(codes.Unauthenticated) {
		return codes.Internal, false
	}
	return codes.Code(uint32(value)), true
}

func readIdempotencyKey(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	values := md.Get(idempotencyKeyHeader)
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}
