package grpcsvc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	adminv1 "github.com/vladislavdragonenkov/storefront/proto/storefront/admin/v1"
)

// AuthUnaryInterceptor требует токен оператора для методов OrderAdmin.
// Health и reflection проходят без токена.
func AuthUnaryInterceptor(verifier *auth.Verifier) grpc.UnaryServerInterceptor {
	prefix := "/" + adminv1.OrderAdmin_ServiceDesc.ServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}
		if verifier == nil {
			return nil, status.Error(codes.Unauthenticated, "authentication is not configured")
		}

		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}

		claims, err := verifier.ParseAuthorization(header)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "authentication failed")
		}
		if !claims.IsAdmin() {
			return nil, status.Error(codes.PermissionDenied, "admin role required")
		}
		return handler(auth.WithClaims(ctx, claims), req)
	}
}
