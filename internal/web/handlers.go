package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/constants"
	"github.com/hance08/txgate/internal/model"
	"github.com/hance08/txgate/internal/service"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username and password are required"})
		return
	}

	p, err := s.authn.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "role": p.Role})
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "request body must be a JSON object"})
		return
	}

	p := principal(c)
	if err := s.authz.Authorize(c.Request.Context(), p, constants.CapSubmit); err != nil {
		s.respondError(c, err)
		return
	}
	if req.Requester == "" {
		req.Requester = p.Name
	}
	if req.Requester != p.Name {
		s.respondError(c, auth.ErrForbidden)
		return
	}

	tx, err := s.svc.Transaction.Submit(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "transaction": tx})
}

func (s *Server) handleListByRequester(c *gin.Context) {
	requester := c.Param("requester")
	if err := s.canView(c, requester); err != nil {
		s.respondError(c, err)
		return
	}

	txs, err := s.svc.Report.ListByRequester(c.Request.Context(), requester)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (s *Server) handleNextSequence(c *gin.Context) {
	requester := c.Param("requester")
	if err := s.canView(c, requester); err != nil {
		s.respondError(c, err)
		return
	}

	next, err := s.svc.Report.NextSequence(c.Request.Context(), requester)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next_id": next})
}

func (s *Server) handleRequesterHistory(c *gin.Context) {
	requester := c.Param("requester")
	if err := s.canView(c, requester); err != nil {
		s.respondError(c, err)
		return
	}

	txs, err := s.svc.Report.ListHistory(c.Request.Context(), requester)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// Admin handlers

// adminView exposes the internal id that the admin transition routes take.
type adminView struct {
	ID int64 `json:"id"`
	*model.Transaction
}

func adminViews(txs []*model.Transaction) []adminView {
	views := make([]adminView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, adminView{ID: tx.InternalID, Transaction: tx})
	}
	return views
}

func (s *Server) requireViewAll(c *gin.Context) bool {
	if err := s.authz.Authorize(c.Request.Context(), principal(c), constants.CapViewAll); err != nil {
		s.respondError(c, err)
		return false
	}
	return true
}

func (s *Server) handlePending(c *gin.Context) {
	if !s.requireViewAll(c) {
		return
	}

	txs, err := s.svc.Report.ListPending(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminViews(txs))
}

func (s *Server) handleHistory(c *gin.Context) {
	if !s.requireViewAll(c) {
		return
	}

	txs, err := s.svc.Report.ListHistory(c.Request.Context(), "")
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminViews(txs))
}

func (s *Server) handleStats(c *gin.Context) {
	if !s.requireViewAll(c) {
		return
	}

	rows, err := s.svc.Report.Stats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	if c.Query("summary") != "" {
		c.JSON(http.StatusOK, service.Summarize(rows))
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleAdminApprove(c *gin.Context) {
	s.adminTransition(c, s.svc.Approval.ApproveAsAdmin)
}

func (s *Server) handleAdminReject(c *gin.Context) {
	s.adminTransition(c, s.svc.Approval.RejectAsAdmin)
}

type adminAction func(ctx context.Context, p auth.Principal, internalID int64) (*service.Outcome, error)

func (s *Server) adminTransition(c *gin.Context, action adminAction) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid transaction id"})
		return
	}

	outcome, err := action(c.Request.Context(), principal(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": outcome.Result, "transaction": outcome.Transaction})
}

// Email link handlers

func (s *Server) handleEmailApprove(c *gin.Context) {
	s.linkTransition(c, s.svc.Approval.ApproveViaLink)
}

func (s *Server) handleEmailReject(c *gin.Context) {
	s.linkTransition(c, s.svc.Approval.RejectViaLink)
}

func (s *Server) linkTransition(c *gin.Context, action func(context.Context, string) (*service.Outcome, error)) {
	outcome, err := action(c.Request.Context(), c.Param("token"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("approval link failed", zap.Error(err))
		}
		c.HTML(status, "link_result.html", gin.H{
			"title":   "Link not valid",
			"message": "This approval link is invalid, expired or has already been used.",
		})
		return
	}

	c.HTML(http.StatusOK, "link_result.html", linkResultData(outcome))
}
