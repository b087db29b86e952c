package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// createEntry creates a draft journal entry with its transaction lines.
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("journal_entry_id", entry.JournalEntryID))
	c.JSON(http.StatusCreated, entry)
}

// postEntry transitions a draft entry to posted.
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("journal_entry_id", entryID))
	c.JSON(http.StatusOK, entry)
}

// reverseEntry creates a posted reversing entry and flips the original.
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	reversing, err := h.journalService.ReverseJournalEntry(c.Request.Context(), entryID, req.Reason, userID)
	if err != nil {
		respondError(c, logger, err, "reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("journal_entry_id", entryID),
		slog.String("reversing_entry_id", reversing.JournalEntryID))
	c.JSON(http.StatusCreated, reversing)
}

// getEntry retrieves an entry with its transaction lines.
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger, err, "retrieve journal entry")
		return
	}

	logger.Debug("Journal entry retrieved", slog.String("journal_entry_id", entryID))
	c.JSON(http.StatusOK, entry)
}

// listEntries returns a page of journal entries, newest first.
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	page, err := h.journalService.ListJournalEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list journal entries")
		return
	}
	c.JSON(http.StatusOK, page)
}

// registerJournalRoutes registers journal entry specific routes
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}
