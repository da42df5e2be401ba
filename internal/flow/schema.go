package flow

// schema pins the output field names and their order. The duplicates at the
// tail (fwd_seg_size_avg, subflow_*) are part of the CICFlowMeter v3 CSV
// contract and must stay even though their values are derivable.
var schema = []struct {
	name  string
	value func(*Record) any
}{
	{"src_ip", func(r *Record) any { return r.SrcIP }},
	{"dst_ip", func(r *Record) any { return r.DstIP }},
	{"src_port", func(r *Record) any { return r.SrcPort }},
	{"dst_port", func(r *Record) any { return r.DstPort }},
	{"protocol", func(r *Record) any { return r.Protocol }},
	{"timestamp", func(r *Record) any { return r.Timestamp }},
	{"flow_duration", func(r *Record) any { return r.FlowDuration }},
	{"flow_byts_s", func(r *Record) any { return r.FlowBytsPerS }},
	{"flow_pkts_s", func(r *Record) any { return r.FlowPktsPerS }},
	{"fwd_pkts_s", func(r *Record) any { return r.FwdPktsPerS }},
	{"bwd_pkts_s", func(r *Record) any { return r.BwdPktsPerS }},
	{"tot_fwd_pkts", func(r *Record) any { return r.TotFwdPkts }},
	{"tot_bwd_pkts", func(r *Record) any { return r.TotBwdPkts }},
	{"totlen_fwd_pkts", func(r *Record) any { return r.TotLenFwdPkts }},
	{"totlen_bwd_pkts", func(r *Record) any { return r.TotLenBwdPkts }},
	{"fwd_pkt_len_max", func(r *Record) any { return r.FwdPktLenMax }},
	{"fwd_pkt_len_min", func(r *Record) any { return r.FwdPktLenMin }},
	{"fwd_pkt_len_mean", func(r *Record) any { return r.FwdPktLenMean }},
	{"fwd_pkt_len_std", func(r *Record) any { return r.FwdPktLenStd }},
	{"bwd_pkt_len_max", func(r *Record) any { return r.BwdPktLenMax }},
	{"bwd_pkt_len_min", func(r *Record) any { return r.BwdPktLenMin }},
	{"bwd_pkt_len_mean", func(r *Record) any { return r.BwdPktLenMean }},
	{"bwd_pkt_len_std", func(r *Record) any { return r.BwdPktLenStd }},
	{"pkt_len_max", func(r *Record) any { return r.PktLenMax }},
	{"pkt_len_min", func(r *Record) any { return r.PktLenMin }},
	{"pkt_len_mean", func(r *Record) any { return r.PktLenMean }},
	{"pkt_len_std", func(r *Record) any { return r.PktLenStd }},
	{"pkt_len_var", func(r *Record) any { return r.PktLenVar }},
	{"fwd_header_len", func(r *Record) any { return r.FwdHeaderLen }},
	{"bwd_header_len", func(r *Record) any { return r.BwdHeaderLen }},
	{"fwd_seg_size_min", func(r *Record) any { return r.FwdSegSizeMin }},
	{"fwd_act_data_pkts", func(r *Record) any { return r.FwdActDataPkts }},
	{"flow_iat_mean", func(r *Record) any { return r.FlowIATMean }},
	{"flow_iat_max", func(r *Record) any { return r.FlowIATMax }},
	{"flow_iat_min", func(r *Record) any { return r.FlowIATMin }},
	{"flow_iat_std", func(r *Record) any { return r.FlowIATStd }},
	{"fwd_iat_tot", func(r *Record) any { return r.FwdIATTot }},
	{"fwd_iat_max", func(r *Record) any { return r.FwdIATMax }},
	{"fwd_iat_min", func(r *Record) any { return r.FwdIATMin }},
	{"fwd_iat_mean", func(r *Record) any { return r.FwdIATMean }},
	{"fwd_iat_std", func(r *Record) any { return r.FwdIATStd }},
	{"bwd_iat_tot", func(r *Record) any { return r.BwdIATTot }},
	{"bwd_iat_max", func(r *Record) any { return r.BwdIATMax }},
	{"bwd_iat_min", func(r *Record) any { return r.BwdIATMin }},
	{"bwd_iat_mean", func(r *Record) any { return r.BwdIATMean }},
	{"bwd_iat_std", func(r *Record) any { return r.BwdIATStd }},
	{"fwd_psh_flags", func(r *Record) any { return r.FwdPSHFlags }},
	{"bwd_psh_flags", func(r *Record) any { return r.BwdPSHFlags }},
	{"fwd_urg_flags", func(r *Record) any { return r.FwdURGFlags }},
	{"bwd_urg_flags", func(r *Record) any { return r.BwdURGFlags }},
	{"fin_flag_cnt", func(r *Record) any { return r.FINFlagCnt }},
	{"syn_flag_cnt", func(r *Record) any { return r.SYNFlagCnt }},
	{"rst_flag_cnt", func(r *Record) any { return r.RSTFlagCnt }},
	{"psh_flag_cnt", func(r *Record) any { return r.PSHFlagCnt }},
	{"ack_flag_cnt", func(r *Record) any { return r.ACKFlagCnt }},
	{"urg_flag_cnt", func(r *Record) any { return r.URGFlagCnt }},
	{"ece_flag_cnt", func(r *Record) any { return r.ECEFlagCnt }},
	{"cwr_flag_count", func(r *Record) any { return r.CWRFlagCnt }},
	{"down_up_ratio", func(r *Record) any { return r.DownUpRatio }},
	{"pkt_size_avg", func(r *Record) any { return r.PktSizeAvg }},
	{"init_fwd_win_byts", func(r *Record) any { return r.InitFwdWinByts }},
	{"init_bwd_win_byts", func(r *Record) any { return r.InitBwdWinByts }},
	{"active_max", func(r *Record) any { return r.ActiveMax }},
	{"active_min", func(r *Record) any { return r.ActiveMin }},
	{"active_mean", func(r *Record) any { return r.ActiveMean }},
	{"active_std", func(r *Record) any { return r.ActiveStd }},
	{"idle_max", func(r *Record) any { return r.IdleMax }},
	{"idle_min", func(r *Record) any { return r.IdleMin }},
	{"idle_mean", func(r *Record) any { return r.IdleMean }},
	{"idle_std", func(r *Record) any { return r.IdleStd }},
	{"fwd_byts_b_avg", func(r *Record) any { return r.FwdBytsBAvg }},
	{"fwd_pkts_b_avg", func(r *Record) any { return r.FwdPktsBAvg }},
	{"bwd_byts_b_avg", func(r *Record) any { return r.BwdBytsBAvg }},
	{"bwd_pkts_b_avg", func(r *Record) any { return r.BwdPktsBAvg }},
	{"fwd_blk_rate_avg", func(r *Record) any { return r.FwdBlkRateAvg }},
	{"bwd_blk_rate_avg", func(r *Record) any { return r.BwdBlkRateAvg }},
	{"fwd_seg_size_avg", func(r *Record) any { return r.FwdSegSizeAvg }},
	{"bwd_seg_size_avg", func(r *Record) any { return r.BwdSegSizeAvg }},
	{"subflow_fwd_pkts", func(r *Record) any { return r.SubflowFwdPkts }},
	{"subflow_bwd_pkts", func(r *Record) any { return r.SubflowBwdPkts }},
	{"subflow_fwd_byts", func(r *Record) any { return r.SubflowFwdByts }},
	{"subflow_bwd_byts", func(r *Record) any { return r.SubflowBwdByts }},
}

// Columns returns the canonical output field names in order.
func Columns() []string {
	cols := make([]string, len(schema))
	for i, f := range schema {
		cols[i] = f.name
	}
	return cols
}

// Values returns the record's values aligned with Columns.
func (r *Record) Values() []any {
	vals := make([]any, len(schema))
	for i, f := range schema {
		vals[i] = f.value(r)
	}
	return vals
}
