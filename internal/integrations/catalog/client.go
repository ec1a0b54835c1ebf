package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Client клиент каталога услуг и справочника сотрудников
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает услугу по ID
func (c *Client) GetService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	var service Service
	if err := c.get(ctx, url, ErrServiceNotFound, &service); err != nil {
		return nil, err
	}

	return service.ToDomain()
}

// GetEmployee получает сотрудника по ID
func (c *Client) GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	url := fmt.Sprintf("%s/internal/employees/%d", c.baseURL, employeeID)

	var employee Employee
	if err := c.get(ctx, url, ErrEmployeeNotFound, &employee); err != nil {
		return nil, err
	}

	return employee.ToDomain()
}

// ListActiveEmployees получает активных сотрудников в порядке справочника
func (c *Client) ListActiveEmployees(ctx context.Context) ([]*domain.Employee, error) {
	url := fmt.Sprintf("%s/internal/employees?active=true", c.baseURL)

	var employees []Employee
	if err := c.get(ctx, url, ErrInvalidResponse, &employees); err != nil {
		return nil, err
	}

	result := make([]*domain.Employee, 0, len(employees))
	for i := range employees {
		// Справочник может проигнорировать фильтр, поэтому проверяем флаг сами
		if !employees[i].IsActive {
			continue
		}
		employee, err := employees[i].ToDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, employee)
	}

	c.log.Info("Catalog: fetched %d active employees", len(result))
	return result, nil
}

// get выполняет GET запрос и декодирует JSON ответ в dst.
// 404 превращается в notFound
func (c *Client) get(ctx context.Context, url string, notFound error, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Catalog: request %s failed: %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("Catalog: unexpected status %d from %s", resp.StatusCode, url)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
