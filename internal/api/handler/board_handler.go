package handler

import (
	"github.com/labstack/echo/v4"
)

// BoardHandler serves the role-gated content boards. Access control is done
// by middleware at mount time; the handlers only render.
type BoardHandler struct{}

func NewBoardHandler() *BoardHandler {
	return &BoardHandler{}
}

// @Summary  Public board
// @Tags     boards
// @Produce  json
// @Success  200  {object}  response
// @Router   /api/test/all [get]
func (h *BoardHandler) Public(c echo.Context) error {
	return respondOK(c, "Public Content.", nil)
}

// @Summary   User board
// @Tags      boards
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  response
// @Failure   401  {object}  response
// @Failure   403  {object}  response
// @Router    /api/test/user [get]
func (h *BoardHandler) User(c echo.Context) error {
	return h.render(c, "User Content.")
}

// @Summary   Instructor board
// @Tags      boards
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  response
// @Failure   401  {object}  response
// @Failure   403  {object}  response
// @Router    /api/test/instructor [get]
func (h *BoardHandler) Instructor(c echo.Context) error {
	return h.render(c, "Instructor Board.")
}

// @Summary   Admin board
// @Tags      boards
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  response
// @Failure   401  {object}  response
// @Failure   403  {object}  response
// @Router    /api/test/admin [get]
func (h *BoardHandler) Admin(c echo.Context) error {
	return h.render(c, "Admin Board.")
}

func (h *BoardHandler) render(c echo.Context, message string) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return respondOK(c, message, map[string]any{"username": p.Subject})
}
