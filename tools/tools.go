//go:build tools

// Пакет tools фиксирует генераторы кода. Стабы proto/storefront/admin/v1 пересобираются из каталога proto:
//
//	go install google.golang.org/protobuf/cmd/protoc-gen-go@v1.36.11
//	go install google.golang.org/grpc/cmd/protoc-gen-go-grpc@v1.6.0
//	protoc -I proto \
//		--go_out=. --go_opt=module=github.com/vladislavdragonenkov/storefront \
//		--go-grpc_out=. --go-grpc_opt=module=github.com/vladislavdragonenkov/storefront \
//		proto/storefront/admin/v1/order_admin.proto
//
// Генераторы ставятся отдельно, поэтому импорты-заглушки не нужны.
package tools
