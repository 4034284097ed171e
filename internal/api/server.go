// Package api serves n-gram models over HTTP.
package api

import (
	"net/http"

	"github.com/labstack/echo/v5"
)

type Server struct {
	service *Service
}

func NewServer(service *Service) *Server {
	return &Server{service: service}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/models", s.handleListModels)
	e.GET("/v1/stats", s.handleStats)
	e.POST("/v1/predict", s.handlePredict)
	e.POST("/v1/generate", s.handleGenerate)
	e.POST("/v1/train", s.handleTrain)
	e.POST("/v1/reset", s.handleReset)
	e.POST("/v1/save", s.handleSave)
}

func (s *Server) handlePredict(c *echo.Context) error {
	req, err := decodeJSON[PredictRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.Predict(c.Request().Context(), &req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGenerate(c *echo.Context) error {
	req, err := decodeJSON[GenerateRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.Generate(c.Request().Context(), &req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTrain(c *echo.Context) error {
	req, err := decodeJSON[TrainRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.Train(c.Request().Context(), &req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReset(c *echo.Context) error {
	req, err := decodeJSON[ModelRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.Reset(c.Request().Context(), &req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSave(c *echo.Context) error {
	req, err := decodeJSON[ModelRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.Save(c.Request().Context(), &req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStats(c *echo.Context) error {
	resp, err := s.service.Stats(c.Request().Context(), c.Request().URL.Query().Get("model"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListModels(c *echo.Context) error {
	resp, err := s.service.ListModels()
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
