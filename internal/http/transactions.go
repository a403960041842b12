package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/granthpal/libscan/internal/audit"
	"github.com/granthpal/libscan/internal/database/transactions"
	"github.com/granthpal/libscan/internal/entities"
	"github.com/granthpal/libscan/internal/scan"
	"github.com/granthpal/libscan/internal/workflow"
)

// TransactionsController drives the scan-based circulation workflows:
// issuing, returning and library check-in. Each endpoint takes raw
// scanned codes and runs them through classification and the mode guard
// before touching the store.
type TransactionsController struct {
	workflow     *workflow.Service
	auditService *audit.Service
}

func NewTransactionsController(workflowService *workflow.Service, auditService *audit.Service) *TransactionsController {
	return &TransactionsController{
		workflow:     workflowService,
		auditService: auditService,
	}
}

type IssueRequest struct {
	StudentCode string `json:"student_code" binding:"required"`
	BookCode    string `json:"book_code" binding:"required"`
}

type ReturnRequest struct {
	BookCode string `json:"book_code" binding:"required"`
}

type CheckInRequest struct {
	StudentCode string `json:"student_code" binding:"required"`
}

type TransactionResponse struct {
	Transaction *entities.Transaction `json:"transaction,omitempty"`
	CheckIn     *entities.CheckIn     `json:"check_in,omitempty"`
	Student     *entities.Student     `json:"student,omitempty"`
	Book        *entities.Book        `json:"book,omitempty"`
}

// Issue handles POST /api/transactions/issue.
func (tc *TransactionsController) Issue(ctx *gin.Context) {
	var req IssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "student_code and book_code are required"})
		return
	}

	student, ok := tc.resolveStudent(ctx, req.StudentCode)
	if !ok {
		return
	}
	book, ok := tc.resolveBook(ctx, req.BookCode)
	if !ok {
		return
	}

	txn, err := tc.workflow.Issue(student, book)
	if tc.auditService != nil {
		tc.auditService.LogWorkflow("issue", student.FullName+" / "+book.Title, err)
	}
	if err != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, TransactionResponse{Transaction: txn, Student: student, Book: book})
}

// Return handles POST /api/transactions/return.
func (tc *TransactionsController) Return(ctx *gin.Context) {
	var req ReturnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "book_code is required"})
		return
	}

	book, ok := tc.resolveBook(ctx, req.BookCode)
	if !ok {
		return
	}

	txn, err := tc.workflow.Return(book)
	if tc.auditService != nil {
		tc.auditService.LogWorkflow("return", book.Title, err)
	}
	if err != nil {
		if errors.Is(err, transactions.ErrNoOpenTransaction) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "book is not currently issued"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, TransactionResponse{Transaction: txn, Book: book})
}

// CheckIn handles POST /api/checkins.
func (tc *TransactionsController) CheckIn(ctx *gin.Context) {
	var req CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "student_code is required"})
		return
	}

	student, ok := tc.resolveStudent(ctx, req.StudentCode)
	if !ok {
		return
	}

	checkIn, err := tc.workflow.CheckIn(student)
	if tc.auditService != nil {
		tc.auditService.LogWorkflow("check_in", student.FullName, err)
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, TransactionResponse{CheckIn: checkIn, Student: student})
}

// resolveStudent classifies and guards a scanned code, then looks the
// student up. Writes the error response itself when resolution fails.
func (tc *TransactionsController) resolveStudent(ctx *gin.Context, code string) (*entities.Student, bool) {
	decision := scan.Guard(scan.Classify(code), scan.ModeStudent)
	if !decision.Accepted {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": decision.Reason})
		return nil, false
	}

	student, err := tc.workflow.ResolveStudent(decision.Record)
	if err != nil {
		if errors.Is(err, workflow.ErrStudentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return nil, false
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return student, true
}

func (tc *TransactionsController) resolveBook(ctx *gin.Context, code string) (*entities.Book, bool) {
	decision := scan.Guard(scan.Classify(code), scan.ModeBook)
	if !decision.Accepted {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": decision.Reason})
		return nil, false
	}

	book, err := tc.workflow.ResolveBook(decision.Record)
	if err != nil {
		if errors.Is(err, workflow.ErrBookNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return nil, false
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return book, true
}
