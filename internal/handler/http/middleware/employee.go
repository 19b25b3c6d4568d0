package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-window-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-window-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// RequireEmployee requires the token to carry UUID company_id and employee_id claims
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, _ := jwtauth.FromContext(r.Context())

		if companyID, ok := claims["company_id"].(string); !ok || !validator.IsValidUUID(companyID) {
			response.HandleError(w, attendance.ErrCompanyClaimMissing)
			return
		}

		if employeeID, ok := claims["employee_id"].(string); !ok || !validator.IsValidUUID(employeeID) {
			response.HandleError(w, attendance.ErrEmployeeClaimMissing)
			return
		}

		next.ServeHTTP(w, r)
	})
}
