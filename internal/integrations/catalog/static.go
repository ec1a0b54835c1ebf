package catalog

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// seedFile формат TOML файла каталога
type seedFile struct {
	Services  []Service  `toml:"services"`
	Employees []Employee `toml:"employees"`
}

// StaticCatalog каталог, загруженный в память из файла.
// Порядок сотрудников совпадает с порядком в файле.
type StaticCatalog struct {
	services  map[int64]*domain.Service
	employees []*domain.Employee
}

// LoadStatic загружает каталог из TOML файла
func LoadStatic(path string) (*StaticCatalog, error) {
	var seed seedFile
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode catalog file %s: %v", ErrInvalidResponse, path, err)
	}

	services := make([]*domain.Service, 0, len(seed.Services))
	for i := range seed.Services {
		service, err := seed.Services[i].ToDomain()
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	employees := make([]*domain.Employee, 0, len(seed.Employees))
	for i := range seed.Employees {
		employee, err := seed.Employees[i].ToDomain()
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	return NewStatic(services, employees), nil
}

// NewStatic создает каталог из готовых доменных моделей
func NewStatic(services []*domain.Service, employees []*domain.Employee) *StaticCatalog {
	c := &StaticCatalog{
		services:  make(map[int64]*domain.Service, len(services)),
		employees: employees,
	}
	for _, s := range services {
		c.services[s.ID] = s
	}
	return c
}

// GetService получает услугу по ID
func (c *StaticCatalog) GetService(_ context.Context, serviceID int64) (*domain.Service, error) {
	service, ok := c.services[serviceID]
	if !ok {
		return nil, ErrServiceNotFound
	}
	cp := *service
	return &cp, nil
}

// GetEmployee получает сотрудника по ID
func (c *StaticCatalog) GetEmployee(_ context.Context, employeeID int64) (*domain.Employee, error) {
	for _, e := range c.employees {
		if e.ID == employeeID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrEmployeeNotFound
}

// ListActiveEmployees возвращает активных сотрудников в порядке справочника
func (c *StaticCatalog) ListActiveEmployees(_ context.Context) ([]*domain.Employee, error) {
	result := make([]*domain.Employee, 0, len(c.employees))
	for _, e := range c.employees {
		if e.IsActive {
			cp := *e
			result = append(result, &cp)
		}
	}
	return result, nil
}
