package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Web pages are thin template shells; the pages talk to the JSON API with
// the browser-held access token, so none of them require auth server-side.

func (h *handlers) indexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

func (h *handlers) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *handlers) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *handlers) dashboardPage(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{})
}

func (h *handlers) viewCalculationPage(c *gin.Context) {
	c.HTML(http.StatusOK, "view_calculation.html", gin.H{"id": c.Param("id")})
}

func (h *handlers) editCalculationPage(c *gin.Context) {
	c.HTML(http.StatusOK, "edit_calculation.html", gin.H{"id": c.Param("id")})
}
