package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gifts-backend/internal/models"
	"gifts-backend/internal/services"
	"gifts-backend/pkg/utils"
)

// BillHandler serves finalized bills: history queries, settlement of open
// balances, and invoice documents.
type BillHandler struct {
	Service   *services.BillService
	Documents *services.DocumentService
}

func NewBillHandler(s *services.BillService, documents *services.DocumentService) *BillHandler {
	return &BillHandler{Service: s, Documents: documents}
}

func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Service.ListBills(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, bills)
}

func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	bill, err := h.Service.GetBill(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "bill not found")
		return
	}
	utils.JSON(w, http.StatusOK, bill)
}

func (h *BillHandler) GetBillByNumber(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Service.GetBillByNumber(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "bill not found")
		return
	}
	utils.JSON(w, http.StatusOK, bill)
}

// RecordPayment settles part of the outstanding balance on a bill.
func (h *BillHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	bill, err := h.Service.RecordPayment(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, bill)
}

// DownloadDocument renders the invoice on the fly and streams it for a local
// download or print dialog.
func (h *BillHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	bill, err := h.Service.GetBill(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "bill not found")
		return
	}

	doc, err := h.Documents.Generate(r.Context(), bill, r.URL.Query().Get("format"))
	if err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Write(doc.Bytes)
}

// RegenerateDocument re-renders the stored invoice and replaces the bill's
// document reference.
func (h *BillHandler) RegenerateDocument(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	bill, err := h.Service.RegenerateDocument(r.Context(), id, r.URL.Query().Get("format"))
	if err != nil {
		utils.Error(w, errorStatus(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, bill)
}
