package engine

import (
	"fmt"
	"strings"

	"github.com/fashionbi/growth-engine/internal/domain"
)

// Presentation layer: every human-readable (Vietnamese) string the engine
// emits lives here, as thin projections of already-computed numbers. The
// numeric decision logic never depends on these.

const (
	labelHigh   = "CAO"
	labelMedium = "TRUNG BÌNH"
	labelLow    = "THẤP"
)

func efficiencyLabel(score float64, cfg Config) string {
	switch {
	case score >= cfg.EfficiencyHighThreshold:
		return labelHigh
	case score >= cfg.EfficiencyLowThreshold:
		return labelMedium
	default:
		return labelLow
	}
}

func directionReason(direction domain.ShapeDirection, efficiency, momentum float64) string {
	switch direction {
	case domain.DirectionExpand:
		return fmt.Sprintf("Hiệu suất %.0f điểm, đà bán hàng %+.0f%% — nên mở rộng", efficiency, momentum)
	case domain.DirectionAvoid:
		return fmt.Sprintf("Hiệu suất %.0f điểm, đà bán hàng %+.0f%% — nên tránh nhập thêm", efficiency, momentum)
	default:
		return fmt.Sprintf("Hiệu suất %.0f điểm, đà bán hàng %+.0f%% — giữ nguyên tỷ trọng", efficiency, momentum)
	}
}

func gravitySummary(categories []domain.GrowthShapeCategory) string {
	if len(categories) == 0 {
		return ""
	}

	top := categories[0]
	for _, c := range categories[1:] {
		if c.RevenueShare > top.RevenueShare {
			top = c
		}
	}

	return fmt.Sprintf("Trọng tâm doanh thu đang nằm ở nhóm %s (%.0f%% doanh thu, hiệu suất %s)",
		top.Category, top.RevenueShare*100, top.EfficiencyLabel)
}

func shapeStatement(expand, avoid []domain.GrowthShapeCategory) string {
	names := func(cats []domain.GrowthShapeCategory) string {
		out := make([]string, 0, len(cats))
		for _, c := range cats {
			out = append(out, c.Category)
		}
		return strings.Join(out, ", ")
	}

	switch {
	case len(expand) > 0 && len(avoid) > 0:
		return fmt.Sprintf("Nên tăng sản lượng nhóm %s và hạn chế nhóm %s", names(expand), names(avoid))
	case len(expand) > 0:
		return fmt.Sprintf("Nên tăng sản lượng nhóm %s", names(expand))
	case len(avoid) > 0:
		return fmt.Sprintf("Hạn chế nhập thêm nhóm %s", names(avoid))
	default:
		return "Giữ nguyên cơ cấu hiện tại, chưa có nhóm nào nổi bật"
	}
}

func stockoutDetail(name string, doc float64) string {
	return fmt.Sprintf("%s chỉ còn %.0f ngày tồn kho", name, doc)
}

func stockoutSuggestion() string {
	return "Ưu tiên sản xuất bổ sung trước khi hết hàng"
}

func overstockDetail(name string, ratio float64) string {
	return fmt.Sprintf("%s đang tồn gấp %.1f lần nhu cầu dự báo", name, ratio)
}

func overstockSuggestion() string {
	return "Cân nhắc xả hàng hoặc giảm giá để thu hồi vốn"
}

func slowMoverDetail(name string, onHand, velocity float64) string {
	return fmt.Sprintf("%s bán chậm (%.2f sp/ngày) nhưng còn tồn %.0f sản phẩm", name, velocity, onHand)
}

func slowMoverSuggestion() string {
	return "Không nhập thêm, xem xét thanh lý tồn kho"
}

func riskTypeDetail(t domain.RiskType, count int) string {
	switch t {
	case domain.RiskStockout:
		return fmt.Sprintf("%d mã hàng sắp hết tồn kho", count)
	case domain.RiskOverstock:
		return fmt.Sprintf("%d mã hàng đang tồn kho vượt nhu cầu", count)
	case domain.RiskSlowMoverHighStock:
		return fmt.Sprintf("%d mã hàng bán chậm nhưng tồn kho cao", count)
	default:
		return fmt.Sprintf("%d mã hàng có rủi ro", count)
	}
}

func riskTypeSuggestion(t domain.RiskType) string {
	switch t {
	case domain.RiskStockout:
		return "Ưu tiên sản xuất các mã sắp hết hàng"
	case domain.RiskOverstock:
		return "Giảm kế hoạch nhập và đẩy nhanh xả tồn"
	case domain.RiskSlowMoverHighStock:
		return "Dừng nhập và thanh lý các mã bán chậm"
	default:
		return "Theo dõi thêm"
	}
}

func concentrationDetail(share float64) string {
	return fmt.Sprintf("Top 3 mã hàng chiếm %.0f%% tổng sản lượng kế hoạch", share*100)
}

func concentrationSuggestion() string {
	return "Phân bổ sản lượng đều hơn để giảm rủi ro tập trung"
}
