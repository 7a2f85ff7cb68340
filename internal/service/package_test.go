package service

//go:generate go run go.uber.org/mock/mockgen -package service -destination repo_mock_test.go github.com/birlikkoshan/todo-live/internal/repo TodoRepo
